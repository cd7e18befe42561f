package repository

import (
	"context"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoRepository is append-and-read only. There is deliberately no
// Update or Delete: the movement log is the audit trail.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.MovimientoInventario, error)
	ListRecientes(ctx context.Context, limit int) ([]model.MovimientoInventario, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).Preload("Producto")

	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
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
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimientos []model.MovimientoInventario
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.MovimientoInventario, error) {
	var movimientos []model.MovimientoInventario
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at ASC").
		Find(&movimientos).Error
	return movimientos, err
}

func (r *movimientoRepo) ListRecientes(ctx context.Context, limit int) ([]model.MovimientoInventario, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var movimientos []model.MovimientoInventario
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Order("created_at DESC").
		Limit(limit).
		Find(&movimientos).Error
	return movimientos, err
}
