package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlorUsada is one component consumed by an armado, in the order the
// employee entered it.
type FlorUsada struct {
	FlorID   uuid.UUID `json:"flor_id"`
	Nombre   string    `json:"nombre"`
	Cantidad int       `json:"cantidad"`
}

// VariacionFlor compares actual usage against the formula standard for
// one flower. Diferencia = Usado - Estandar.
type VariacionFlor struct {
	Estandar   int `json:"estandar"`
	Usado      int `json:"usado"`
	Diferencia int `json:"diferencia"`
}

// FloresUsadas and VariacionFormula are stored as jsonb columns.

type FloresUsadas []FlorUsada

func (f FloresUsadas) Value() (driver.Value, error) { return json.Marshal(f) }

func (f *FloresUsadas) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("flores_usadas: unsupported scan type")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, f)
}

type VariacionFormula map[string]VariacionFlor

func (v VariacionFormula) Value() (driver.Value, error) { return json.Marshal(v) }

func (v *VariacionFormula) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("variacion_formula: unsupported scan type")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, v)
}

// RamoArmado records one bouquet assembly: which flowers were actually
// consumed and how the quantities deviated from the formula. Created
// exactly once per successful assembly, immutable thereafter.
type RamoArmado struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RamoBaseID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	EmpleadoID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	TurnoID          *uuid.UUID       `gorm:"type:uuid;index"`
	FloresUsadas     FloresUsadas     `gorm:"type:jsonb;not null"`
	VariacionFormula VariacionFormula `gorm:"type:jsonb;not null"`
	CreatedAt        time.Time

	RamoBase *Producto `gorm:"foreignKey:RamoBaseID"`
}

// TableName overrides GORM's default pluralization.
func (RamoArmado) TableName() string { return "ramos_armados" }
