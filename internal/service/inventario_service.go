package service

import (
	"context"
	"errors"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"
	"github.com/Shoelmaxi/floreria-web/internal/repository"
	"github.com/Shoelmaxi/floreria-web/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Movimiento describes one requested stock change. Cantidad is signed:
// negative decrements. ReferenciaID links the movement back to the venta
// or ramo armado that caused it.
type Movimiento struct {
	ProductoID   uuid.UUID
	Tipo         string
	Cantidad     int
	Motivo       string
	EmpleadoID   *uuid.UUID
	TurnoID      *uuid.UUID
	ReferenciaID *uuid.UUID
	Notas        *string
}

// InventarioService is the inventory ledger. AplicarMovimientoTx is the
// ONLY path by which product stock changes — ventas and armados call it
// inside their own transactions, the public wrappers open a transaction
// per movement.
type InventarioService interface {
	// AplicarMovimientoTx row-locks the product, validates the resulting
	// stock is non-negative, persists the updated stock and the ledger
	// entry as one unit, and returns the updated product plus the entry.
	AplicarMovimientoTx(tx *gorm.DB, mov Movimiento) (*model.Producto, *model.MovimientoInventario, error)

	RegistrarAbastecimiento(ctx context.Context, empleadoID uuid.UUID, req dto.AbastecimientoRequest) (*dto.MovimientoResponse, error)
	RegistrarMerma(ctx context.Context, empleadoID uuid.UUID, req dto.MermaRequest) (*dto.MovimientoResponse, error)
	AjusteManual(ctx context.Context, empleadoID uuid.UUID, req dto.AjusteManualRequest) (*dto.MovimientoResponse, error)

	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	// HistorialProducto returns the complete ledger of one product in
	// chronological order, so the stock chain reads top to bottom.
	HistorialProducto(ctx context.Context, productoID uuid.UUID) ([]dto.MovimientoResponse, error)
	Resumen(ctx context.Context) (*dto.ResumenInventarioResponse, error)

	// NotificarBajoStock enqueues an alert for every product at or below
	// its minimum. Best-effort: called after commit, never fails the
	// originating operation.
	NotificarBajoStock(ctx context.Context, productos ...*model.Producto)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoRepository
	dispatcher     *worker.Dispatcher
	rdb            *redis.Client
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoRepository,
	dispatcher *worker.Dispatcher,
	rdb *redis.Client,
) InventarioService {
	return &inventarioService{
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── AplicarMovimientoTx ──────────────────────────────────────────────────────

func (s *inventarioService) AplicarMovimientoTx(tx *gorm.DB, mov Movimiento) (*model.Producto, *model.MovimientoInventario, error) {
	p, err := s.productoRepo.FindByIDForUpdate(tx, mov.ProductoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &NotFoundError{Entidad: "producto", ID: mov.ProductoID}
		}
		return nil, nil, err
	}

	nuevoStock := p.Stock + mov.Cantidad
	if nuevoStock < 0 {
		return nil, nil, &StockInsuficienteError{
			ProductoID: p.ID,
			Nombre:     p.Nombre,
			Disponible: p.Stock,
			Solicitado: -mov.Cantidad,
		}
	}

	if err := s.productoRepo.UpdateStockTx(tx, p.ID, nuevoStock); err != nil {
		return nil, nil, err
	}

	registro := &model.MovimientoInventario{
		ProductoID:    p.ID,
		Tipo:          mov.Tipo,
		Cantidad:      mov.Cantidad,
		StockAnterior: p.Stock,
		StockNuevo:    nuevoStock,
		Motivo:        mov.Motivo,
		EmpleadoID:    mov.EmpleadoID,
		TurnoID:       mov.TurnoID,
		ReferenciaID:  mov.ReferenciaID,
		Notas:         mov.Notas,
	}
	if err := s.movimientoRepo.CreateTx(tx, registro); err != nil {
		return nil, nil, err
	}

	p.Stock = nuevoStock
	return p, registro, nil
}

// ── Public wrappers ──────────────────────────────────────────────────────────

func (s *inventarioService) RegistrarAbastecimiento(ctx context.Context, empleadoID uuid.UUID, req dto.AbastecimientoRequest) (*dto.MovimientoResponse, error) {
	return s.registrar(ctx, empleadoID, model.MovAbastecimiento, req.ProductoID, req.Cantidad, "", req.TurnoID, req.Notas)
}

func (s *inventarioService) RegistrarMerma(ctx context.Context, empleadoID uuid.UUID, req dto.MermaRequest) (*dto.MovimientoResponse, error) {
	if req.Motivo == "" {
		return nil, &ValidacionError{Campo: "motivo", Detail: "la merma requiere un motivo"}
	}
	return s.registrar(ctx, empleadoID, model.MovMerma, req.ProductoID, -req.Cantidad, req.Motivo, req.TurnoID, req.Notas)
}

func (s *inventarioService) AjusteManual(ctx context.Context, empleadoID uuid.UUID, req dto.AjusteManualRequest) (*dto.MovimientoResponse, error) {
	if req.Cantidad == 0 {
		return nil, ErrCantidadInvalida
	}
	return s.registrar(ctx, empleadoID, model.MovAjusteManual, req.ProductoID, req.Cantidad, req.Motivo, req.TurnoID, req.Notas)
}

func (s *inventarioService) registrar(ctx context.Context, empleadoID uuid.UUID, tipo, productoIDStr string, cantidad int, motivo string, turnoIDStr *string, notas *string) (*dto.MovimientoResponse, error) {
	productoID, err := uuid.Parse(productoIDStr)
	if err != nil {
		return nil, &ValidacionError{Campo: "producto_id", Detail: "inválido"}
	}
	turnoID, err := parseOptionalUUID(turnoIDStr)
	if err != nil {
		return nil, &ValidacionError{Campo: "turno_id", Detail: "inválido"}
	}

	var producto *model.Producto
	var registro *model.MovimientoInventario
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		p, m, err := s.AplicarMovimientoTx(tx, Movimiento{
			ProductoID: productoID,
			Tipo:       tipo,
			Cantidad:   cantidad,
			Motivo:     motivo,
			EmpleadoID: &empleadoID,
			TurnoID:    turnoID,
			Notas:      notas,
		})
		if err != nil {
			return err
		}
		producto, registro = p, m
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.NotificarBajoStock(ctx, producto)

	resp := movimientoToResponse(registro)
	resp.ProductoNombre = producto.Nombre
	return resp, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	movimientos, total, err := s.movimientoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		m := &movimientos[i]
		r := movimientoToResponse(m)
		if m.Producto != nil {
			r.ProductoNombre = m.Producto.Nombre
		}
		items = append(items, *r)
	}
	return &dto.MovimientoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventarioService) HistorialProducto(ctx context.Context, productoID uuid.UUID) ([]dto.MovimientoResponse, error) {
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entidad: "producto", ID: productoID}
		}
		return nil, err
	}

	movimientos, err := s.movimientoRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		r := movimientoToResponse(&movimientos[i])
		r.ProductoNombre = producto.Nombre
		items = append(items, *r)
	}
	return items, nil
}

func (s *inventarioService) Resumen(ctx context.Context) (*dto.ResumenInventarioResponse, error) {
	bajos, err := s.productoRepo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	recientes, err := s.movimientoRepo.ListRecientes(ctx, 20)
	if err != nil {
		return nil, err
	}
	_, totalProductos, err := s.productoRepo.List(ctx, dto.ProductoFilter{Page: 1, Limit: 1})
	if err != nil {
		return nil, err
	}
	sinStock, err := s.productoRepo.CountSinStock(ctx)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenInventarioResponse{
		BajoStock:         make([]dto.ProductoResponse, 0, len(bajos)),
		UltimosMovimientos: make([]dto.MovimientoResponse, 0, len(recientes)),
		TotalProductos:    totalProductos,
		ProductosSinStock: sinStock,
	}
	for i := range bajos {
		resumen.BajoStock = append(resumen.BajoStock, *productoToResponse(&bajos[i]))
	}
	for i := range recientes {
		m := &recientes[i]
		r := movimientoToResponse(m)
		if m.Producto != nil {
			r.ProductoNombre = m.Producto.Nombre
		}
		resumen.UltimosMovimientos = append(resumen.UltimosMovimientos, *r)
	}
	return resumen, nil
}

// ── Alerts ───────────────────────────────────────────────────────────────────

func (s *inventarioService) NotificarBajoStock(ctx context.Context, productos ...*model.Producto) {
	// Stock just changed: the cached catalog snapshot is stale.
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
			log.Warn().Err(err).Msg("no se pudo invalidar el cache del catálogo")
		}
	}

	if s.dispatcher == nil {
		return
	}
	for _, p := range productos {
		if p == nil || !p.BajoStock() {
			continue
		}
		payload := worker.AlertaStockPayload{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
		}
		if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Warn().Err(err).Str("producto", p.Nombre).Msg("no se pudo encolar alerta de stock")
		}
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func movimientoToResponse(m *model.MovimientoInventario) *dto.MovimientoResponse {
	r := &dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		Notas:         m.Notas,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.EmpleadoID != nil {
		s := m.EmpleadoID.String()
		r.EmpleadoID = &s
	}
	if m.TurnoID != nil {
		s := m.TurnoID.String()
		r.TurnoID = &s
	}
	if m.ReferenciaID != nil {
		s := m.ReferenciaID.String()
		r.ReferenciaID = &s
	}
	return r
}
