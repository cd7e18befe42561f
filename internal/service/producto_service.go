package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/model"
	"github.com/Shoelmaxi/floreria-web/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	catalogoCacheKey = "catalogo:activos"
	catalogoCacheTTL = 10 * time.Minute
	// catalogoCacheLimit is the page size the cached snapshot was built
	// with — the bound default of ProductoFilter.Limit.
	catalogoCacheLimit = 50
)

// ProductoService defines the business logic contract for the catalog:
// products plus the formulas that tie a ramo_base to its flowers.
type ProductoService interface {
	Crear(ctx context.Context, creadoPor uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)

	CrearFormula(ctx context.Context, req dto.CrearFormulaRequest) (*dto.FormulaEntryResponse, error)
	ObtenerFormula(ctx context.Context, ramoID uuid.UUID) ([]dto.FormulaEntryResponse, error)
	EliminarFormula(ctx context.Context, formulaID uuid.UUID) error
}

type productoService struct {
	repo        repository.ProductoRepository
	formulaRepo repository.FormulaRepository
	rdb         *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, formulaRepo repository.FormulaRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, formulaRepo: formulaRepo, rdb: rdb}
}

// ── Productos ────────────────────────────────────────────────────────────────

func (s *productoService) Crear(ctx context.Context, creadoPor uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	unidad := req.Unidad
	if unidad == "" {
		unidad = "unidad"
	}
	p := &model.Producto{
		Nombre:      req.Nombre,
		Tipo:        req.Tipo,
		Stock:       req.Stock,
		StockMinimo: req.StockMinimo,
		Unidad:      unidad,
		FotoURL:     req.FotoURL,
		CreadoPor:   &creadoPor,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCatalogo(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entidad: "producto", ID: id}
		}
		return nil, err
	}
	return productoToResponse(p), nil
}

// Listar serves the default query (active catalog, first page, no
// name/type filter) from Redis. Every write path invalidates the key,
// so the staleness window is the TTL only if invalidation itself fails.
func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	cacheable := s.rdb != nil && esFiltroDefault(filter)

	if cacheable {
		if cached, err := s.rdb.Get(ctx, catalogoCacheKey).Bytes(); err == nil {
			var resp dto.ProductoListResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}

	if cacheable {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), catalogoCacheKey, b, catalogoCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entidad: "producto", ID: id}
		}
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.Unidad != nil {
		p.Unidad = *req.Unidad
	}
	if req.FotoURL != nil {
		p.FotoURL = req.FotoURL
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCatalogo(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entidad: "producto", ID: id}
		}
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarCatalogo(ctx)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entidad: "producto", ID: id}
		}
		return nil, err
	}
	s.invalidarCatalogo(ctx)
	return productoToResponse(p), nil
}

// ── Formulas ─────────────────────────────────────────────────────────────────

func (s *productoService) CrearFormula(ctx context.Context, req dto.CrearFormulaRequest) (*dto.FormulaEntryResponse, error) {
	ramoID, err := uuid.Parse(req.RamoID)
	if err != nil {
		return nil, &ValidacionError{Campo: "ramo_id", Detail: "inválido"}
	}
	florID, err := uuid.Parse(req.FlorID)
	if err != nil {
		return nil, &ValidacionError{Campo: "flor_id", Detail: "inválido"}
	}
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	ramo, err := s.repo.FindByID(ctx, ramoID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "ramo", ID: ramoID}
	}
	if ramo.Tipo != model.TipoRamoBase {
		return nil, &ValidacionError{Campo: "ramo_id", Detail: "el producto no es un ramo base"}
	}
	flor, err := s.repo.FindByID(ctx, florID)
	if err != nil {
		return nil, &NotFoundError{Entidad: "flor", ID: florID}
	}
	if flor.Tipo != model.TipoFlor {
		return nil, &ValidacionError{Campo: "flor_id", Detail: "el producto no es una flor"}
	}

	// One active entry per (ramo, flor). The partial unique index on
	// formulas_ramos closes the race this check leaves open.
	if existente, err := s.formulaRepo.FindActivaPorPar(ctx, ramoID, florID); err == nil && existente != nil {
		return nil, ErrFormulaDuplicada
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	f := &model.FormulaRamo{
		RamoID:           ramoID,
		FlorID:           florID,
		CantidadEstandar: req.Cantidad,
		Activo:           true,
	}
	if err := s.formulaRepo.Create(ctx, f); err != nil {
		return nil, err
	}

	return &dto.FormulaEntryResponse{
		ID:               f.ID.String(),
		RamoID:           ramoID.String(),
		FlorID:           florID.String(),
		FlorNombre:       flor.Nombre,
		FlorStock:        flor.Stock,
		CantidadEstandar: f.CantidadEstandar,
	}, nil
}

func (s *productoService) ObtenerFormula(ctx context.Context, ramoID uuid.UUID) ([]dto.FormulaEntryResponse, error) {
	if _, err := s.repo.FindByID(ctx, ramoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entidad: "ramo", ID: ramoID}
		}
		return nil, err
	}

	formulas, err := s.formulaRepo.ListByRamo(ctx, ramoID)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.FormulaEntryResponse, 0, len(formulas))
	for i := range formulas {
		f := &formulas[i]
		e := dto.FormulaEntryResponse{
			ID:               f.ID.String(),
			RamoID:           f.RamoID.String(),
			FlorID:           f.FlorID.String(),
			CantidadEstandar: f.CantidadEstandar,
		}
		if f.Flor != nil {
			e.FlorNombre = f.Flor.Nombre
			e.FlorStock = f.Flor.Stock
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *productoService) EliminarFormula(ctx context.Context, formulaID uuid.UUID) error {
	if _, err := s.formulaRepo.FindByID(ctx, formulaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entidad: "formula", ID: formulaID}
		}
		return err
	}
	return s.formulaRepo.Delete(ctx, formulaID)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// esFiltroDefault reports whether the query matches the snapshot stored
// under the single cache key: active catalog, first page, default page
// size, no filters. Any other limit must reach Postgres — serving the
// cached page would silently override the caller's pagination.
func esFiltroDefault(f dto.ProductoFilter) bool {
	return f.Tipo == "" && f.Nombre == "" &&
		(f.Activo == "" || f.Activo == "true") &&
		f.Page <= 1 && f.Limit == catalogoCacheLimit
}

func (s *productoService) invalidarCatalogo(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el cache del catálogo")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Tipo:        p.Tipo,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
		Unidad:      p.Unidad,
		FotoURL:     p.FotoURL,
		Activo:      p.Activo,
		BajoStock:   p.BajoStock(),
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
