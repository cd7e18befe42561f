package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods for in-store sales. Delivery-platform sales carry
// neither amount nor method — the platform settles separately.
const (
	PagoEfectivo      = "efectivo"
	PagoTransferencia = "transferencia"
	PagoDebito        = "debito"
)

// Venta is one point-of-sale event. MontoTotal and MetodoPago are nil
// when EsDelivery is true; the server forces them to nil even if the
// client sends values. Each Venta is a distinct real-world event —
// identical submissions create separate records on purpose.
type Venta struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	TurnoID    *uuid.UUID `gorm:"type:uuid;index"`
	Fecha      time.Time  `gorm:"not null;index"`
	MontoTotal *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MetodoPago *string          `gorm:"type:varchar(20)"`
	EsDelivery bool             `gorm:"not null;default:false"`
	Notas      *string
	CreatedAt  time.Time

	Items    []VentaItem `gorm:"foreignKey:VentaID"`
	Empleado *Usuario    `gorm:"foreignKey:EmpleadoID"`
}

// VentaItem is one cart line. NombreProducto is denormalized at sale
// time so historical tickets survive later product renames.
type VentaItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null"`
	NombreProducto string    `gorm:"not null"`
	Cantidad       int       `gorm:"not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
