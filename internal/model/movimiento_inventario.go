package model

import (
	"time"

	"github.com/google/uuid"
)

// Closed set of movement types. Adding a type is a schema migration,
// never a silent extension — dashboards and auditors switch on these.
const (
	MovAbastecimiento   = "abastecimiento"    // restock, positive
	MovMerma            = "merma"             // waste, negative, requires motivo
	MovConsumoArmado    = "consumo_armado"    // flowers consumed by an armado
	MovProduccionArmado = "produccion_armado" // +1 ramo_base produced by an armado
	MovVenta            = "venta"             // sale line decrement
	MovAjusteManual     = "ajuste_manual"     // signed manual correction
)

// MovimientoInventario is one immutable entry of the stock audit trail.
// Invariant: StockNuevo == StockAnterior + Cantidad and StockNuevo >= 0.
// Movements are NEVER updated or deleted — corrections append an
// ajuste_manual entry. Replaying a product's movements in creation
// order over its initial stock reproduces its current stock exactly.
type MovimientoInventario struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(24);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	EmpleadoID    *uuid.UUID `gorm:"type:uuid;index"`
	TurnoID       *uuid.UUID `gorm:"type:uuid;index"`
	// ReferenciaID links back to the Venta or RamoArmado that caused the movement.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	Notas        *string
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoInventario) TableName() string { return "movimientos_inventario" }

// EsEgreso reports whether the movement type decrements stock.
func EsEgreso(tipo string) bool {
	return tipo == MovMerma || tipo == MovConsumoArmado || tipo == MovVenta
}
