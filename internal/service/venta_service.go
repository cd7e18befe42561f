package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"
	"github.com/Shoelmaxi/floreria-web/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, empleadoID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	inventario   InventarioService
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	inventario InventarioService,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		inventario:   inventario,
	}
}

// ── RegistrarVenta ───────────────────────────────────────────────────────────
// Full ACID flow:
//   1. Pre-flight outside the tx: non-empty cart, payment rules, every
//      product exists, is active and has stock. Any failure rejects the
//      whole cart with no writes.
//   2. BEGIN TX: create venta + items, then one venta movement per cart
//      line through the ledger (row-locked re-check, so a concurrent sale
//      that won the race makes this one roll back entirely).
//   3. After COMMIT: low-stock alerts, best-effort.
//
// Sales are deliberately NOT idempotent — two identical submissions are
// two real sales and decrement stock twice.

func (s *ventaService) RegistrarVenta(ctx context.Context, empleadoID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrCarritoVacio
	}

	// Payment rules: delivery sales settle through the platform, so the
	// server discards monto/metodo even when the client sends them.
	// In-store sales require both.
	var montoTotal *decimal.Decimal
	var metodoPago *string
	if req.EsDelivery {
		montoTotal, metodoPago = nil, nil
	} else {
		if req.MontoTotal == nil || req.MontoTotal.LessThanOrEqual(decimal.Zero) {
			return nil, ErrMontoRequerido
		}
		if req.MetodoPago == nil || *req.MetodoPago == "" {
			return nil, ErrMetodoPagoRequerido
		}
		montoTotal, metodoPago = req.MontoTotal, req.MetodoPago
	}

	turnoID, err := parseOptionalUUID(req.TurnoID)
	if err != nil {
		return nil, &ValidacionError{Campo: "turno_id", Detail: "inválido"}
	}

	// Pre-flight: resolve every product before touching the DB.
	type resolvedItem struct {
		producto *model.Producto
		cantidad int
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, &ValidacionError{Campo: "producto_id", Detail: "inválido"}
		}
		if item.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, &NotFoundError{Entidad: "producto", ID: pid}
		}
		if !p.Activo {
			return nil, &ValidacionError{Campo: "producto_id", Detail: fmt.Sprintf("%s está inactivo y no puede venderse", p.Nombre)}
		}
		if p.Stock < item.Cantidad {
			return nil, &StockInsuficienteError{
				ProductoID: p.ID,
				Nombre:     p.Nombre,
				Disponible: p.Stock,
				Solicitado: item.Cantidad,
			}
		}
		resolved = append(resolved, resolvedItem{producto: p, cantidad: item.Cantidad})
	}

	venta := &model.Venta{
		EmpleadoID: empleadoID,
		TurnoID:    turnoID,
		Fecha:      time.Now(),
		MontoTotal: montoTotal,
		MetodoPago: metodoPago,
		EsDelivery: req.EsDelivery,
		Notas:      req.Notas,
	}
	for _, r := range resolved {
		venta.Items = append(venta.Items, model.VentaItem{
			ProductoID:     r.producto.ID,
			NombreProducto: r.producto.Nombre,
			Cantidad:       r.cantidad,
		})
	}

	afectados := make([]*model.Producto, 0, len(resolved))
	stockRestante := make(map[uuid.UUID]int, len(resolved))
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, venta); err != nil {
			return err
		}

		ref := venta.ID
		for _, r := range resolved {
			nota := fmt.Sprintf("Venta de %s", r.producto.Nombre)
			p, _, err := s.inventario.AplicarMovimientoTx(tx, Movimiento{
				ProductoID:   r.producto.ID,
				Tipo:         model.MovVenta,
				Cantidad:     -r.cantidad,
				EmpleadoID:   &empleadoID,
				TurnoID:      turnoID,
				ReferenciaID: &ref,
				Notas:        &nota,
			})
			if err != nil {
				return err
			}
			afectados = append(afectados, p)
			stockRestante[p.ID] = p.Stock
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.inventario.NotificarBajoStock(ctx, afectados...)

	resp := ventaToResponse(venta)
	for i := range resp.Items {
		resp.Items[i].StockRestante = stockRestante[venta.Items[i].ProductoID]
	}
	return resp, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entidad: "venta", ID: id}
	}
	resp := ventaToResponse(v)
	for i, item := range v.Items {
		if item.Producto != nil {
			resp.Items[i].StockRestante = item.Producto.Stock
		}
	}
	return resp, nil
}

// ListVentas returns a paginated list of sales. Default filter: today's.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			ProductoID: item.ProductoID.String(),
			Producto:   item.NombreProducto,
			Cantidad:   item.Cantidad,
		})
	}
	r := &dto.VentaResponse{
		ID:         v.ID.String(),
		EmpleadoID: v.EmpleadoID.String(),
		Fecha:      v.Fecha.Format("2006-01-02T15:04:05Z"),
		MontoTotal: v.MontoTotal,
		MetodoPago: v.MetodoPago,
		EsDelivery: v.EsDelivery,
		Items:      items,
		Notas:      v.Notas,
		CreatedAt:  v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if v.TurnoID != nil {
		s := v.TurnoID.String()
		r.TurnoID = &s
	}
	return r
}
