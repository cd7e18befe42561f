package repository

import (
	"context"

	"github.com/Shoelmaxi/floreria-web/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	// FindAbiertoPorEmpleado returns the employee's open turno, if any.
	FindAbiertoPorEmpleado(ctx context.Context, empleadoID uuid.UUID) (*model.Turno, error)
	Update(ctx context.Context, t *model.Turno) error
	List(ctx context.Context, empleadoID *uuid.UUID, page, limit int) ([]model.Turno, int64, error)
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindAbiertoPorEmpleado(ctx context.Context, empleadoID uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("empleado_id = ? AND estado = 'abierto'", empleadoID).
		Order("hora_inicio DESC").
		First(&t).Error
	return &t, err
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *turnoRepo) List(ctx context.Context, empleadoID *uuid.UUID, page, limit int) ([]model.Turno, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Turno{})
	if empleadoID != nil {
		q = q.Where("empleado_id = ?", *empleadoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var turnos []model.Turno
	err := q.Order("hora_inicio DESC").Offset((page - 1) * limit).Limit(limit).Find(&turnos).Error
	return turnos, total, err
}
