package tests

import (
	"context"
	"testing"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"
	"github.com/Shoelmaxi/floreria-web/internal/repository"
	"github.com/Shoelmaxi/floreria-web/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if !p.Activo {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(r.productos)), nil
}

func (r *stubProductoRepo) ListBajoStock(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.BajoStock() {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) CountSinStock(_ context.Context) (int64, error) {
	var total int64
	for _, p := range r.productos {
		if p.Activo && p.Stock == 0 {
			total++
		}
	}
	return total, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, nuevoStock int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = nuevoStock
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── In-memory MovimientoRepository stub ──────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoInventario
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	var result []model.MovimientoInventario
	for _, m := range r.movimientos {
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.MovimientoInventario, error) {
	var result []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *stubMovimientoRepo) ListRecientes(_ context.Context, limit int) ([]model.MovimientoInventario, error) {
	if len(r.movimientos) <= limit {
		return r.movimientos, nil
	}
	return r.movimientos[len(r.movimientos)-limit:], nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre, tipo string, stock, minimo int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		Tipo:        tipo,
		Stock:       stock,
		StockMinimo: minimo,
		Unidad:      "unidad",
		Activo:      true,
	}
	repo.productos[p.ID] = p
	return p
}

func buildInventarioSvc() (service.InventarioService, *stubProductoRepo, *stubMovimientoRepo) {
	productoRepo := newStubProductoRepo()
	movimientoRepo := &stubMovimientoRepo{}
	svc := service.NewInventarioService(productoRepo, movimientoRepo, nil, nil)
	return svc, productoRepo, movimientoRepo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAbastecimiento_IncrementaStockYRegistraMovimiento(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 10, 5)
	empleado := uuid.New()

	resp, err := svc.RegistrarAbastecimiento(context.Background(), empleado, dto.AbastecimientoRequest{
		ProductoID: p.ID.String(),
		Cantidad:   25,
	})
	require.NoError(t, err)
	assert.Equal(t, 35, productoRepo.productos[p.ID].Stock)
	assert.Equal(t, model.MovAbastecimiento, resp.Tipo)
	assert.Equal(t, 10, resp.StockAnterior)
	assert.Equal(t, 35, resp.StockNuevo)

	require.Len(t, movimientoRepo.movimientos, 1)
	mov := movimientoRepo.movimientos[0]
	assert.Equal(t, 25, mov.Cantidad)
	require.NotNil(t, mov.EmpleadoID)
	assert.Equal(t, empleado, *mov.EmpleadoID)
}

func TestMerma_DescuentaStockYExigeMotivo(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	p := seedProducto(productoRepo, "Tulipán", model.TipoFlor, 20, 3)

	resp, err := svc.RegistrarMerma(context.Background(), uuid.New(), dto.MermaRequest{
		ProductoID: p.ID.String(),
		Cantidad:   4,
		Motivo:     "flores marchitas",
	})
	require.NoError(t, err)
	assert.Equal(t, 16, productoRepo.productos[p.ID].Stock)
	assert.Equal(t, -4, resp.Cantidad)
	assert.Equal(t, "flores marchitas", resp.Motivo)
}

func TestMerma_StockInsuficiente(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Lirio", model.TipoFlor, 3, 1)

	_, err := svc.RegistrarMerma(context.Background(), uuid.New(), dto.MermaRequest{
		ProductoID: p.ID.String(),
		Cantidad:   5,
		Motivo:     "rotura en transporte",
	})
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Disponible)
	assert.Equal(t, 5, stockErr.Solicitado)
	assert.Equal(t, 2, stockErr.Faltante())

	// No partial writes: stock intact, ledger empty.
	assert.Equal(t, 3, productoRepo.productos[p.ID].Stock)
	assert.Empty(t, movimientoRepo.movimientos)
}

func TestMerma_AgotamientoExacto(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	p := seedProducto(productoRepo, "Gerbera", model.TipoFlor, 5, 2)

	// Consuming exactly the available stock succeeds and leaves zero.
	_, err := svc.RegistrarMerma(context.Background(), uuid.New(), dto.MermaRequest{
		ProductoID: p.ID.String(),
		Cantidad:   5,
		Motivo:     "lote vencido",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, productoRepo.productos[p.ID].Stock)

	// One more unit is rejected.
	_, err = svc.RegistrarMerma(context.Background(), uuid.New(), dto.MermaRequest{
		ProductoID: p.ID.String(),
		Cantidad:   1,
		Motivo:     "lote vencido",
	})
	var stockErr *service.StockInsuficienteError
	assert.ErrorAs(t, err, &stockErr)
}

func TestAjusteManual_DeltaFirmado(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Jarrón chico", model.TipoAccesorio, 8, 2)

	// Negative delta corrects stock down.
	_, err := svc.AjusteManual(context.Background(), uuid.New(), dto.AjusteManualRequest{
		ProductoID: p.ID.String(),
		Cantidad:   -3,
		Motivo:     "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, productoRepo.productos[p.ID].Stock)

	// Zero is meaningless and rejected.
	_, err = svc.AjusteManual(context.Background(), uuid.New(), dto.AjusteManualRequest{
		ProductoID: p.ID.String(),
		Cantidad:   0,
		Motivo:     "conteo físico",
	})
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)
	assert.Len(t, movimientoRepo.movimientos, 1)
}

func TestMovimiento_ProductoInexistente(t *testing.T) {
	svc, _, _ := buildInventarioSvc()

	_, err := svc.RegistrarAbastecimiento(context.Background(), uuid.New(), dto.AbastecimientoRequest{
		ProductoID: uuid.NewString(),
		Cantidad:   10,
	})
	var notFound *service.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "producto", notFound.Entidad)
}

func TestLedger_StockAnteriorYNuevoEncadenan(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Rosa blanca", model.TipoFlor, 0, 5)
	empleado := uuid.New()

	pasos := []struct {
		cantidad int
		merma    bool
	}{
		{cantidad: 30}, {cantidad: 12, merma: true}, {cantidad: 5}, {cantidad: 7, merma: true},
	}
	for _, paso := range pasos {
		var err error
		if paso.merma {
			_, err = svc.RegistrarMerma(context.Background(), empleado, dto.MermaRequest{
				ProductoID: p.ID.String(), Cantidad: paso.cantidad, Motivo: "ciclo de prueba",
			})
		} else {
			_, err = svc.RegistrarAbastecimiento(context.Background(), empleado, dto.AbastecimientoRequest{
				ProductoID: p.ID.String(), Cantidad: paso.cantidad,
			})
		}
		require.NoError(t, err)
	}

	// Every movement records the stock it saw and the stock it produced;
	// consecutive entries chain exactly.
	require.Len(t, movimientoRepo.movimientos, 4)
	for i, mov := range movimientoRepo.movimientos {
		assert.Equal(t, mov.StockAnterior+mov.Cantidad, mov.StockNuevo)
		if i > 0 {
			assert.Equal(t, movimientoRepo.movimientos[i-1].StockNuevo, mov.StockAnterior)
		}
	}
	assert.Equal(t, 16, productoRepo.productos[p.ID].Stock)
}

func TestResumen_BajoStockYSinStock(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 2, 5)       // bajo stock
	seedProducto(productoRepo, "Clavel", model.TipoFlor, 0, 3)          // sin stock (y bajo)
	seedProducto(productoRepo, "Girasol", model.TipoFlor, 40, 5)        // ok
	seedProducto(productoRepo, "Cinta decorativa", model.TipoAccesorio, 10, 10) // stock == minimo cuenta como bajo

	resumen, err := svc.Resumen(context.Background())
	require.NoError(t, err)
	assert.Len(t, resumen.BajoStock, 3)
	assert.Equal(t, int64(4), resumen.TotalProductos)
	assert.Equal(t, int64(1), resumen.ProductosSinStock)
}

func TestHistorialProducto_SoloMovimientosDelProducto(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	rosa := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 10, 5)
	tulipan := seedProducto(productoRepo, "Tulipán", model.TipoFlor, 10, 5)
	empleado := uuid.New()

	_, err := svc.RegistrarAbastecimiento(context.Background(), empleado, dto.AbastecimientoRequest{
		ProductoID: rosa.ID.String(), Cantidad: 20,
	})
	require.NoError(t, err)
	_, err = svc.RegistrarAbastecimiento(context.Background(), empleado, dto.AbastecimientoRequest{
		ProductoID: tulipan.ID.String(), Cantidad: 8,
	})
	require.NoError(t, err)
	_, err = svc.RegistrarMerma(context.Background(), empleado, dto.MermaRequest{
		ProductoID: rosa.ID.String(), Cantidad: 6, Motivo: "flores marchitas",
	})
	require.NoError(t, err)

	historial, err := svc.HistorialProducto(context.Background(), rosa.ID)
	require.NoError(t, err)
	require.Len(t, historial, 2)
	assert.Equal(t, model.MovAbastecimiento, historial[0].Tipo)
	assert.Equal(t, model.MovMerma, historial[1].Tipo)
	for _, mov := range historial {
		assert.Equal(t, rosa.ID.String(), mov.ProductoID)
		assert.Equal(t, "Rosa roja", mov.ProductoNombre)
	}
	// Chronological: each entry starts where the previous one ended.
	assert.Equal(t, historial[0].StockNuevo, historial[1].StockAnterior)
}

func TestHistorialProducto_ProductoInexistente(t *testing.T) {
	svc, _, _ := buildInventarioSvc()

	_, err := svc.HistorialProducto(context.Background(), uuid.New())
	var notFound *service.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "producto", notFound.Entidad)
}
