package service

import (
	"context"
	"fmt"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"
	"github.com/Shoelmaxi/floreria-web/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArmadoService interface {
	Armar(ctx context.Context, empleadoID uuid.UUID, req dto.ArmarRamoRequest) (*dto.ArmadoResponse, error)
	Listar(ctx context.Context, filter dto.ArmadoFilter) (*dto.ArmadoListResponse, error)
}

type armadoService struct {
	repo         repository.ArmadoRepository
	formulaRepo  repository.FormulaRepository
	productoRepo repository.ProductoRepository
	inventario   InventarioService
}

func NewArmadoService(
	repo repository.ArmadoRepository,
	formulaRepo repository.FormulaRepository,
	productoRepo repository.ProductoRepository,
	inventario InventarioService,
) ArmadoService {
	return &armadoService{
		repo:         repo,
		formulaRepo:  formulaRepo,
		productoRepo: productoRepo,
		inventario:   inventario,
	}
}

// ── Armar ────────────────────────────────────────────────────────────────────
// Produces exactly one unit of the ramo_base:
//   1. Precheck everything — formula exists, every input flower resolves,
//      every formula flower is present in the input, quantities are
//      positive, stock suffices. No write happens before all checks pass.
//   2. One transaction: create the RamoArmado (with variance), one
//      consumo_armado movement per flower, one produccion_armado +1 on
//      the ramo. Stock is re-validated under row locks inside the tx, so
//      a concurrent operation that consumed the same flowers first makes
//      this one fail with no partial apply.

func (s *armadoService) Armar(ctx context.Context, empleadoID uuid.UUID, req dto.ArmarRamoRequest) (*dto.ArmadoResponse, error) {
	ramoID, err := uuid.Parse(req.RamoID)
	if err != nil {
		return nil, &ValidacionError{Campo: "ramo_id", Detail: "inválido"}
	}
	turnoID, err := parseOptionalUUID(req.TurnoID)
	if err != nil {
		return nil, &ValidacionError{Campo: "turno_id", Detail: "inválido"}
	}

	ramo, err := s.productoRepo.FindByID(ctx, ramoID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "ramo", ID: ramoID}
	}
	if ramo.Tipo != model.TipoRamoBase {
		return nil, &ValidacionError{Campo: "ramo_id", Detail: "el producto no es un ramo base"}
	}
	if !ramo.Activo {
		return nil, &ValidacionError{Campo: "ramo_id", Detail: "el ramo está inactivo"}
	}

	// 1. Load formula — assembling without one is rejected.
	formula, err := s.formulaRepo.ListByRamo(ctx, ramoID)
	if err != nil {
		return nil, err
	}
	if len(formula) == 0 {
		return nil, ErrSinFormula
	}

	// 2. Resolve and validate every input flower.
	type usada struct {
		flor     *model.Producto
		cantidad int
	}
	usadas := make([]usada, 0, len(req.FloresUsadas))
	porFlor := make(map[uuid.UUID]int, len(req.FloresUsadas))
	for _, fu := range req.FloresUsadas {
		florID, err := uuid.Parse(fu.FlorID)
		if err != nil {
			return nil, &ValidacionError{Campo: "flor_id", Detail: "inválido"}
		}
		if fu.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		flor, err := s.productoRepo.FindByID(ctx, florID)
		if err != nil {
			return nil, &ComponenteDesconocidoError{FlorID: florID}
		}
		if flor.Tipo != model.TipoFlor {
			return nil, &ValidacionError{Campo: "flor_id", Detail: fmt.Sprintf("%s no es una flor", flor.Nombre)}
		}
		if flor.Stock < fu.Cantidad {
			return nil, &StockInsuficienteError{
				ProductoID: flor.ID,
				Nombre:     flor.Nombre,
				Disponible: flor.Stock,
				Solicitado: fu.Cantidad,
			}
		}
		usadas = append(usadas, usada{flor: flor, cantidad: fu.Cantidad})
		porFlor[florID] = fu.Cantidad
	}

	// 3. Every formula flower must be named explicitly — omission is
	// rejected, never defaulted to the standard quantity.
	variacion := make(model.VariacionFormula, len(formula))
	for i := range formula {
		f := &formula[i]
		usado, ok := porFlor[f.FlorID]
		if !ok {
			nombre := f.FlorID.String()
			if f.Flor != nil {
				nombre = f.Flor.Nombre
			}
			return nil, &ComponenteFaltanteError{FlorID: f.FlorID, Nombre: nombre}
		}
		variacion[f.FlorID.String()] = model.VariacionFlor{
			Estandar:   f.CantidadEstandar,
			Usado:      usado,
			Diferencia: usado - f.CantidadEstandar,
		}
	}

	floresUsadas := make(model.FloresUsadas, 0, len(usadas))
	for _, u := range usadas {
		floresUsadas = append(floresUsadas, model.FlorUsada{
			FlorID:   u.flor.ID,
			Nombre:   u.flor.Nombre,
			Cantidad: u.cantidad,
		})
	}

	// 4. Atomic commit.
	armado := &model.RamoArmado{
		RamoBaseID:       ramoID,
		EmpleadoID:       empleadoID,
		TurnoID:          turnoID,
		FloresUsadas:     floresUsadas,
		VariacionFormula: variacion,
	}

	afectados := make([]*model.Producto, 0, len(usadas)+1)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, armado); err != nil {
			return err
		}

		ref := armado.ID
		nota := fmt.Sprintf("Usado en armado de %s", ramo.Nombre)
		for _, u := range usadas {
			p, _, err := s.inventario.AplicarMovimientoTx(tx, Movimiento{
				ProductoID:   u.flor.ID,
				Tipo:         model.MovConsumoArmado,
				Cantidad:     -u.cantidad,
				EmpleadoID:   &empleadoID,
				TurnoID:      turnoID,
				ReferenciaID: &ref,
				Notas:        &nota,
			})
			if err != nil {
				return err
			}
			afectados = append(afectados, p)
		}

		notaRamo := "Ramo armado"
		p, _, err := s.inventario.AplicarMovimientoTx(tx, Movimiento{
			ProductoID:   ramoID,
			Tipo:         model.MovProduccionArmado,
			Cantidad:     1,
			EmpleadoID:   &empleadoID,
			TurnoID:      turnoID,
			ReferenciaID: &ref,
			Notas:        &notaRamo,
		})
		if err != nil {
			return err
		}
		ramo = p
		afectados = append(afectados, p)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.inventario.NotificarBajoStock(ctx, afectados...)

	return armadoToResponse(armado, ramo), nil
}

// ── Listar ───────────────────────────────────────────────────────────────────

func (s *armadoService) Listar(ctx context.Context, filter dto.ArmadoFilter) (*dto.ArmadoListResponse, error) {
	armados, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArmadoResponse, 0, len(armados))
	for i := range armados {
		a := &armados[i]
		items = append(items, *armadoToResponse(a, a.RamoBase))
	}
	return &dto.ArmadoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func armadoToResponse(a *model.RamoArmado, ramo *model.Producto) *dto.ArmadoResponse {
	flores := make([]dto.FlorUsadaResponse, 0, len(a.FloresUsadas))
	for _, f := range a.FloresUsadas {
		flores = append(flores, dto.FlorUsadaResponse{
			FlorID:   f.FlorID.String(),
			Nombre:   f.Nombre,
			Cantidad: f.Cantidad,
		})
	}
	variacion := make(map[string]dto.VariacionResponse, len(a.VariacionFormula))
	for florID, v := range a.VariacionFormula {
		variacion[florID] = dto.VariacionResponse{
			Estandar:   v.Estandar,
			Usado:      v.Usado,
			Diferencia: v.Diferencia,
		}
	}

	r := &dto.ArmadoResponse{
		ID:           a.ID.String(),
		RamoID:       a.RamoBaseID.String(),
		EmpleadoID:   a.EmpleadoID.String(),
		FloresUsadas: flores,
		Variacion:    variacion,
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if a.TurnoID != nil {
		s := a.TurnoID.String()
		r.TurnoID = &s
	}
	if ramo != nil {
		r.RamoNombre = ramo.Nombre
		r.RamoStock = ramo.Stock
	}
	return r
}
