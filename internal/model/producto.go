package model

import (
	"time"

	"github.com/google/uuid"
)

// Product kinds. A ramo_base is a composite product assembled from
// flores according to its FormulaRamo entries.
const (
	TipoFlor      = "flor"
	TipoRamoBase  = "ramo_base"
	TipoAccesorio = "accesorio"
)

// Producto represents flowers, bouquet bases and accessories.
// Stock only changes through InventarioService — every mutation leaves
// a MovimientoInventario behind. Products are never hard-deleted:
// Activo=false hides them from selection but keeps historical
// movements, sales and armados resolvable.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Tipo        string    `gorm:"type:varchar(20);not null;index"` // "flor" | "ramo_base" | "accesorio"
	Stock       int       `gorm:"not null;default:0"`
	StockMinimo int       `gorm:"not null;default:5"`
	Unidad      string    `gorm:"not null;default:'unidad'"`
	FotoURL     *string
	CreadoPor   *uuid.UUID `gorm:"type:uuid"`
	Activo      bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BajoStock reports whether the product is at or below its advisory minimum.
func (p *Producto) BajoStock() bool { return p.Stock <= p.StockMinimo }
