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

// ── In-memory FormulaRepository stub ─────────────────────────────────────────

type stubFormulaRepo struct {
	formulas map[uuid.UUID]*model.FormulaRamo
}

func newStubFormulaRepo() *stubFormulaRepo {
	return &stubFormulaRepo{formulas: make(map[uuid.UUID]*model.FormulaRamo)}
}

func (r *stubFormulaRepo) Create(_ context.Context, f *model.FormulaRamo) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.formulas[f.ID] = f
	return nil
}

func (r *stubFormulaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FormulaRamo, error) {
	f, ok := r.formulas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *stubFormulaRepo) FindActivaPorPar(_ context.Context, ramoID, florID uuid.UUID) (*model.FormulaRamo, error) {
	for _, f := range r.formulas {
		if f.RamoID == ramoID && f.FlorID == florID && f.Activo {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubFormulaRepo) ListByRamo(_ context.Context, ramoID uuid.UUID) ([]model.FormulaRamo, error) {
	var result []model.FormulaRamo
	for _, f := range r.formulas {
		if f.RamoID == ramoID && f.Activo {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (r *stubFormulaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.formulas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.formulas, id)
	return nil
}

var _ repository.FormulaRepository = (*stubFormulaRepo)(nil)

// ── In-memory ArmadoRepository stub ──────────────────────────────────────────

type stubArmadoRepo struct {
	armados []model.RamoArmado
}

func (r *stubArmadoRepo) CreateTx(_ *gorm.DB, a *model.RamoArmado) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.armados = append(r.armados, *a)
	return nil
}

func (r *stubArmadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RamoArmado, error) {
	for i := range r.armados {
		if r.armados[i].ID == id {
			return &r.armados[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubArmadoRepo) List(_ context.Context, filter dto.ArmadoFilter) ([]model.RamoArmado, int64, error) {
	return r.armados, int64(len(r.armados)), nil
}

func (r *stubArmadoRepo) DB() *gorm.DB { return nil }

var _ repository.ArmadoRepository = (*stubArmadoRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedFormula(repo *stubFormulaRepo, ramo, flor *model.Producto, estandar int) *model.FormulaRamo {
	f := &model.FormulaRamo{
		ID:               uuid.New(),
		RamoID:           ramo.ID,
		FlorID:           flor.ID,
		CantidadEstandar: estandar,
		Activo:           true,
		Flor:             flor,
	}
	repo.formulas[f.ID] = f
	return f
}

func buildArmadoSvc() (service.ArmadoService, *stubProductoRepo, *stubFormulaRepo, *stubArmadoRepo, *stubMovimientoRepo) {
	productoRepo := newStubProductoRepo()
	formulaRepo := newStubFormulaRepo()
	armadoRepo := &stubArmadoRepo{}
	movimientoRepo := &stubMovimientoRepo{}
	inventario := service.NewInventarioService(productoRepo, movimientoRepo, nil, nil)
	svc := service.NewArmadoService(armadoRepo, formulaRepo, productoRepo, inventario)
	return svc, productoRepo, formulaRepo, armadoRepo, movimientoRepo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestArmar_ConsumeFloresYProduceRamo(t *testing.T) {
	svc, productoRepo, formulaRepo, armadoRepo, movimientoRepo := buildArmadoSvc()
	ramo := seedProducto(productoRepo, "Ramo primaveral", model.TipoRamoBase, 2, 0)
	rosas := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 30, 5)
	lirios := seedProducto(productoRepo, "Lirio blanco", model.TipoFlor, 15, 5)
	seedFormula(formulaRepo, ramo, rosas, 12)
	seedFormula(formulaRepo, ramo, lirios, 4)

	resp, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID: ramo.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{
			{FlorID: rosas.ID.String(), Cantidad: 10},
			{FlorID: lirios.ID.String(), Cantidad: 6},
		},
	})
	require.NoError(t, err)

	// Flowers down, bouquet up by exactly one.
	assert.Equal(t, 20, productoRepo.productos[rosas.ID].Stock)
	assert.Equal(t, 9, productoRepo.productos[lirios.ID].Stock)
	assert.Equal(t, 3, productoRepo.productos[ramo.ID].Stock)
	assert.Equal(t, 3, resp.RamoStock)

	// Variance per formula entry: usado - estandar.
	require.Contains(t, resp.Variacion, rosas.ID.String())
	assert.Equal(t, dto.VariacionResponse{Estandar: 12, Usado: 10, Diferencia: -2}, resp.Variacion[rosas.ID.String()])
	assert.Equal(t, dto.VariacionResponse{Estandar: 4, Usado: 6, Diferencia: 2}, resp.Variacion[lirios.ID.String()])

	// Ledger: one consumo per flower plus one produccion, all linked to
	// the armado record.
	require.Len(t, armadoRepo.armados, 1)
	require.Len(t, movimientoRepo.movimientos, 3)
	armadoID := armadoRepo.armados[0].ID
	for _, mov := range movimientoRepo.movimientos {
		require.NotNil(t, mov.ReferenciaID)
		assert.Equal(t, armadoID, *mov.ReferenciaID)
	}
	assert.Equal(t, model.MovConsumoArmado, movimientoRepo.movimientos[0].Tipo)
	assert.Equal(t, model.MovProduccionArmado, movimientoRepo.movimientos[2].Tipo)
	assert.Equal(t, 1, movimientoRepo.movimientos[2].Cantidad)
}

func TestArmar_SinFormula(t *testing.T) {
	svc, productoRepo, _, _, _ := buildArmadoSvc()
	ramo := seedProducto(productoRepo, "Ramo sin receta", model.TipoRamoBase, 0, 0)

	_, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID: ramo.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{
			{FlorID: uuid.NewString(), Cantidad: 1},
		},
	})
	assert.ErrorIs(t, err, service.ErrSinFormula)
}

func TestArmar_ComponenteFaltante(t *testing.T) {
	svc, productoRepo, formulaRepo, _, movimientoRepo := buildArmadoSvc()
	ramo := seedProducto(productoRepo, "Ramo clásico", model.TipoRamoBase, 0, 0)
	rosas := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 30, 5)
	gypso := seedProducto(productoRepo, "Gypsophila", model.TipoFlor, 30, 5)
	seedFormula(formulaRepo, ramo, rosas, 12)
	seedFormula(formulaRepo, ramo, gypso, 3)

	// The employee only reports the roses: the omitted gypsophila is
	// rejected, never defaulted to its standard quantity.
	_, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID: ramo.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{
			{FlorID: rosas.ID.String(), Cantidad: 12},
		},
	})
	var faltante *service.ComponenteFaltanteError
	require.ErrorAs(t, err, &faltante)
	assert.Equal(t, gypso.ID, faltante.FlorID)
	assert.Equal(t, "Gypsophila", faltante.Nombre)

	// Nothing moved.
	assert.Equal(t, 30, productoRepo.productos[rosas.ID].Stock)
	assert.Empty(t, movimientoRepo.movimientos)
}

func TestArmar_ComponenteDesconocido(t *testing.T) {
	svc, productoRepo, formulaRepo, _, _ := buildArmadoSvc()
	ramo := seedProducto(productoRepo, "Ramo clásico", model.TipoRamoBase, 0, 0)
	rosas := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 30, 5)
	seedFormula(formulaRepo, ramo, rosas, 12)

	fantasma := uuid.New()
	_, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID: ramo.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{
			{FlorID: rosas.ID.String(), Cantidad: 12},
			{FlorID: fantasma.String(), Cantidad: 2},
		},
	})
	var desconocido *service.ComponenteDesconocidoError
	require.ErrorAs(t, err, &desconocido)
	assert.Equal(t, fantasma, desconocido.FlorID)
}

func TestArmar_CantidadInvalida(t *testing.T) {
	svc, productoRepo, formulaRepo, _, _ := buildArmadoSvc()
	ramo := seedProducto(productoRepo, "Ramo clásico", model.TipoRamoBase, 0, 0)
	rosas := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 30, 5)
	seedFormula(formulaRepo, ramo, rosas, 12)

	_, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID: ramo.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{
			{FlorID: rosas.ID.String(), Cantidad: 0},
		},
	})
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)
}

func TestArmar_StockInsuficiente(t *testing.T) {
	svc, productoRepo, formulaRepo, armadoRepo, movimientoRepo := buildArmadoSvc()
	ramo := seedProducto(productoRepo, "Ramo grande", model.TipoRamoBase, 0, 0)
	rosas := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 8, 5)
	seedFormula(formulaRepo, ramo, rosas, 12)

	_, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID: ramo.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{
			{FlorID: rosas.ID.String(), Cantidad: 12},
		},
	})
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 8, stockErr.Disponible)
	assert.Equal(t, 12, stockErr.Solicitado)

	assert.Empty(t, armadoRepo.armados)
	assert.Empty(t, movimientoRepo.movimientos)
	assert.Equal(t, 8, productoRepo.productos[rosas.ID].Stock)
}

func TestArmar_FlorExtraSeConsumeSinVariacion(t *testing.T) {
	svc, productoRepo, formulaRepo, _, movimientoRepo := buildArmadoSvc()
	ramo := seedProducto(productoRepo, "Ramo clásico", model.TipoRamoBase, 0, 0)
	rosas := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 30, 5)
	extra := seedProducto(productoRepo, "Eucalipto", model.TipoFlor, 10, 2)
	seedFormula(formulaRepo, ramo, rosas, 12)

	resp, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID: ramo.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{
			{FlorID: rosas.ID.String(), Cantidad: 12},
			{FlorID: extra.ID.String(), Cantidad: 3},
		},
	})
	require.NoError(t, err)

	// The off-formula flower is consumed and listed among flores_usadas,
	// but produces no variance entry.
	assert.Equal(t, 7, productoRepo.productos[extra.ID].Stock)
	assert.Len(t, resp.FloresUsadas, 2)
	assert.NotContains(t, resp.Variacion, extra.ID.String())
	assert.Len(t, resp.Variacion, 1)
	assert.Len(t, movimientoRepo.movimientos, 3) // 2 consumos + 1 produccion
}

func TestArmar_RamoInvalido(t *testing.T) {
	svc, productoRepo, _, _, _ := buildArmadoSvc()

	// Unknown id.
	_, err := svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID:       uuid.NewString(),
		FloresUsadas: []dto.FlorUsadaRequest{{FlorID: uuid.NewString(), Cantidad: 1}},
	})
	var notFound *service.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	// A plain flower is not assemblable.
	flor := seedProducto(productoRepo, "Rosa roja", model.TipoFlor, 10, 5)
	_, err = svc.Armar(context.Background(), uuid.New(), dto.ArmarRamoRequest{
		RamoID:       flor.ID.String(),
		FloresUsadas: []dto.FlorUsadaRequest{{FlorID: uuid.NewString(), Cantidad: 1}},
	})
	var valErr *service.ValidacionError
	assert.ErrorAs(t, err, &valErr)
}
