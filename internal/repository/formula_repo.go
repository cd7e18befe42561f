package repository

import (
	"context"

	"github.com/Shoelmaxi/floreria-web/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormulaRepository interface {
	Create(ctx context.Context, f *model.FormulaRamo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FormulaRamo, error)
	// FindActivaPorPar returns the active entry for a (ramo, flor) pair, if any.
	FindActivaPorPar(ctx context.Context, ramoID, florID uuid.UUID) (*model.FormulaRamo, error)
	// ListByRamo returns active entries joined with flower detail, ordered by flower name.
	ListByRamo(ctx context.Context, ramoID uuid.UUID) ([]model.FormulaRamo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type formulaRepo struct{ db *gorm.DB }

func NewFormulaRepository(db *gorm.DB) FormulaRepository { return &formulaRepo{db: db} }

func (r *formulaRepo) Create(ctx context.Context, f *model.FormulaRamo) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *formulaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FormulaRamo, error) {
	var f model.FormulaRamo
	err := r.db.WithContext(ctx).First(&f, id).Error
	return &f, err
}

func (r *formulaRepo) FindActivaPorPar(ctx context.Context, ramoID, florID uuid.UUID) (*model.FormulaRamo, error) {
	var f model.FormulaRamo
	err := r.db.WithContext(ctx).
		Where("ramo_id = ? AND flor_id = ? AND activo = true", ramoID, florID).
		First(&f).Error
	return &f, err
}

func (r *formulaRepo) ListByRamo(ctx context.Context, ramoID uuid.UUID) ([]model.FormulaRamo, error) {
	var formulas []model.FormulaRamo
	err := r.db.WithContext(ctx).
		Joins("JOIN productos ON productos.id = formulas_ramos.flor_id").
		Where("formulas_ramos.ramo_id = ? AND formulas_ramos.activo = true", ramoID).
		Order("productos.nombre ASC").
		Preload("Flor").
		Find(&formulas).Error
	return formulas, err
}

func (r *formulaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FormulaRamo{}, id).Error
}
