package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"
	"github.com/Shoelmaxi/floreria-web/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TurnoService interface {
	Abrir(ctx context.Context, empleadoID uuid.UUID) (*dto.TurnoResponse, error)
	Cerrar(ctx context.Context, turnoID uuid.UUID, notas *string) (*dto.TurnoResponse, error)
	// Actual returns the employee's open turno, or nil without error when
	// there is none.
	Actual(ctx context.Context, empleadoID uuid.UUID) (*dto.TurnoResponse, error)
	Listar(ctx context.Context, empleadoID *uuid.UUID, page, limit int) ([]dto.TurnoResponse, int64, error)
}

type turnoService struct {
	repo repository.TurnoRepository
}

func NewTurnoService(repo repository.TurnoRepository) TurnoService {
	return &turnoService{repo: repo}
}

// ── Abrir ────────────────────────────────────────────────────────────────────
// At most one open turno per employee. The pre-check yields the friendly
// conflict error for the common case; the partial unique index on
// (empleado_id) WHERE estado='abierto' closes the double-submit race at
// the database.

func (s *turnoService) Abrir(ctx context.Context, empleadoID uuid.UUID) (*dto.TurnoResponse, error) {
	if existente, err := s.repo.FindAbiertoPorEmpleado(ctx, empleadoID); err == nil && existente != nil {
		return nil, ErrTurnoYaAbierto
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	turno := &model.Turno{
		EmpleadoID: empleadoID,
		HoraInicio: time.Now(),
		Estado:     "abierto",
	}
	if err := s.repo.Create(ctx, turno); err != nil {
		return nil, err
	}
	return turnoToResponse(turno, time.Now()), nil
}

// ── Cerrar ───────────────────────────────────────────────────────────────────

func (s *turnoService) Cerrar(ctx context.Context, turnoID uuid.UUID, notas *string) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinTurnoAbierto
		}
		return nil, err
	}
	if turno.Estado != "abierto" {
		return nil, ErrSinTurnoAbierto
	}

	fin := time.Now()
	turno.HoraFin = &fin
	turno.Estado = "cerrado"
	if notas != nil && *notas != "" {
		turno.Notas = notas
	}
	if err := s.repo.Update(ctx, turno); err != nil {
		return nil, err
	}
	return turnoToResponse(turno, fin), nil
}

// ── Actual ───────────────────────────────────────────────────────────────────

func (s *turnoService) Actual(ctx context.Context, empleadoID uuid.UUID) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindAbiertoPorEmpleado(ctx, empleadoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if turno == nil {
		return nil, nil
	}
	return turnoToResponse(turno, time.Now()), nil
}

func (s *turnoService) Listar(ctx context.Context, empleadoID *uuid.UUID, page, limit int) ([]dto.TurnoResponse, int64, error) {
	turnos, total, err := s.repo.List(ctx, empleadoID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	items := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		items = append(items, *turnoToResponse(&turnos[i], now))
	}
	return items, total, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// Transcurrido computes elapsed time for an open turno. Pure function,
// recomputed on demand — nothing is persisted incrementally.
func Transcurrido(t *model.Turno, now time.Time) time.Duration {
	if t == nil || t.Estado != "abierto" {
		return 0
	}
	return now.Sub(t.HoraInicio)
}

func formatTranscurrido(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	horas := int(d.Hours())
	minutos := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", horas, minutos)
}

func turnoToResponse(t *model.Turno, now time.Time) *dto.TurnoResponse {
	r := &dto.TurnoResponse{
		ID:           t.ID.String(),
		EmpleadoID:   t.EmpleadoID.String(),
		HoraInicio:   t.HoraInicio.Format("2006-01-02T15:04:05Z"),
		Estado:       t.Estado,
		Notas:        t.Notas,
		Transcurrido: formatTranscurrido(Transcurrido(t, now)),
	}
	if t.HoraFin != nil {
		fin := t.HoraFin.Format("2006-01-02T15:04:05Z")
		r.HoraFin = &fin
	}
	return r
}
