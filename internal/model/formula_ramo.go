package model

import (
	"time"

	"github.com/google/uuid"
)

// FormulaRamo links one ramo_base to one flor with its standard quantity.
// At most one active entry may exist per (ramo, flor) pair — enforced by a
// partial unique index (see infra.applySchemaPatches).
type FormulaRamo struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RamoID           uuid.UUID `gorm:"type:uuid;not null;index"`
	FlorID           uuid.UUID `gorm:"type:uuid;not null;index"`
	CantidadEstandar int       `gorm:"not null"`
	Activo           bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time

	Ramo *Producto `gorm:"foreignKey:RamoID"`
	Flor *Producto `gorm:"foreignKey:FlorID"`
}

// TableName overrides GORM's default pluralization (formula_ramos → formulas_ramos).
func (FormulaRamo) TableName() string { return "formulas_ramos" }
