package repository

import (
	"context"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArmadoRepository interface {
	CreateTx(tx *gorm.DB, a *model.RamoArmado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RamoArmado, error)
	List(ctx context.Context, filter dto.ArmadoFilter) ([]model.RamoArmado, int64, error)
	DB() *gorm.DB
}

type armadoRepo struct{ db *gorm.DB }

func NewArmadoRepository(db *gorm.DB) ArmadoRepository { return &armadoRepo{db: db} }

func (r *armadoRepo) CreateTx(tx *gorm.DB, a *model.RamoArmado) error {
	return tx.Create(a).Error
}

func (r *armadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RamoArmado, error) {
	var a model.RamoArmado
	err := r.db.WithContext(ctx).Preload("RamoBase").First(&a, id).Error
	return &a, err
}

func (r *armadoRepo) List(ctx context.Context, filter dto.ArmadoFilter) ([]model.RamoArmado, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.RamoArmado{})

	if filter.RamoID != "" {
		q = q.Where("ramo_base_id = ?", filter.RamoID)
	}
	if filter.EmpleadoID != "" {
		q = q.Where("empleado_id = ?", filter.EmpleadoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var armados []model.RamoArmado
	err := q.Preload("RamoBase").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&armados).Error
	return armados, total, err
}

func (r *armadoRepo) DB() *gorm.DB { return r.db }
