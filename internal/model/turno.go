package model

import (
	"time"

	"github.com/google/uuid"
)

// Turno represents one bounded work session per employee.
// Estado: "abierto" | "cerrado". At most one open turno per employee —
// enforced by a partial unique index (see infra.applySchemaPatches).
// A closed turno is never reopened.
type Turno struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;not null;index"`
	HoraInicio time.Time `gorm:"not null"`
	HoraFin    *time.Time
	Estado     string `gorm:"type:varchar(20);not null;default:'abierto'"`
	Notas      *string
	CreatedAt  time.Time
}
