package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbastecimientoRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,gt=0"`
	TurnoID    *string `json:"turno_id"    validate:"omitempty,uuid"`
	Notas      *string `json:"notas"`
}

type MermaRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,gt=0"`
	Motivo     string  `json:"motivo"      validate:"required,min=3"`
	TurnoID    *string `json:"turno_id"    validate:"omitempty,uuid"`
	Notas      *string `json:"notas"`
}

// AjusteManualRequest carries a signed delta: positive corrects stock up,
// negative corrects it down. Zero is rejected.
type AjusteManualRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required"`
	Motivo     string  `json:"motivo"      validate:"required,min=3"`
	TurnoID    *string `json:"turno_id"    validate:"omitempty,uuid"`
	Notas      *string `json:"notas"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID             string  `json:"id"`
	ProductoID     string  `json:"producto_id"`
	ProductoNombre string  `json:"producto_nombre"`
	Tipo           string  `json:"tipo"`
	Cantidad       int     `json:"cantidad"`
	StockAnterior  int     `json:"stock_anterior"`
	StockNuevo     int     `json:"stock_nuevo"`
	Motivo         string  `json:"motivo,omitempty"`
	EmpleadoID     *string `json:"empleado_id"`
	TurnoID        *string `json:"turno_id"`
	ReferenciaID   *string `json:"referencia_id"`
	Notas          *string `json:"notas"`
	CreatedAt      string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ResumenInventarioResponse is the plain read the dashboard polls:
// products at or below minimum plus the most recent movements.
type ResumenInventarioResponse struct {
	BajoStock           []ProductoResponse   `json:"bajo_stock"`
	UltimosMovimientos  []MovimientoResponse `json:"ultimos_movimientos"`
	TotalProductos      int64                `json:"total_productos"`
	ProductosSinStock   int64                `json:"productos_sin_stock"`
}
