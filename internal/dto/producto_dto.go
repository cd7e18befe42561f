package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string  `json:"nombre"       validate:"required,min=2,max=120"`
	Tipo        string  `json:"tipo"         validate:"required,oneof=flor ramo_base accesorio"`
	Stock       int     `json:"stock"        validate:"min=0"`
	StockMinimo int     `json:"stock_minimo" validate:"min=0"`
	Unidad      string  `json:"unidad"`
	FotoURL     *string `json:"foto_url"`
}

type ActualizarProductoRequest struct {
	Nombre      *string `json:"nombre"       validate:"omitempty,min=2,max=120"`
	StockMinimo *int    `json:"stock_minimo" validate:"omitempty,min=0"`
	Unidad      *string `json:"unidad"`
	FotoURL     *string `json:"foto_url"`
}

type CrearFormulaRequest struct {
	RamoID   string `json:"ramo_id"  validate:"required,uuid"`
	FlorID   string `json:"flor_id"  validate:"required,uuid"`
	Cantidad int    `json:"cantidad" validate:"required,gt=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// Activo filter: "false" = inactivos, "all" = todos, anything else = activos.
type ProductoFilter struct {
	Tipo   string `form:"tipo"   validate:"omitempty,oneof=flor ramo_base accesorio"`
	Nombre string `form:"nombre"`
	Activo string `form:"activo"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Tipo        string  `json:"tipo"`
	Stock       int     `json:"stock"`
	StockMinimo int     `json:"stock_minimo"`
	Unidad      string  `json:"unidad"`
	FotoURL     *string `json:"foto_url"`
	Activo      bool    `json:"activo"`
	BajoStock   bool    `json:"bajo_stock"`
	CreatedAt   string  `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// FormulaEntryResponse is one active formula entry joined with flower detail,
// ordered by flower name.
type FormulaEntryResponse struct {
	ID               string `json:"id"`
	RamoID           string `json:"ramo_id"`
	FlorID           string `json:"flor_id"`
	FlorNombre       string `json:"flor_nombre"`
	FlorStock        int    `json:"flor_stock"`
	CantidadEstandar int    `json:"cantidad_estandar"`
}
