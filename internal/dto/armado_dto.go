package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type FlorUsadaRequest struct {
	FlorID   string `json:"flor_id"  validate:"required,uuid"`
	Cantidad int    `json:"cantidad" validate:"required"`
}

// ArmarRamoRequest must name every flower of the formula explicitly —
// omitted formula components are rejected, never defaulted.
type ArmarRamoRequest struct {
	RamoID       string             `json:"ramo_id" validate:"required,uuid"`
	FloresUsadas []FlorUsadaRequest `json:"flores_usadas" validate:"required,min=1,dive"`
	TurnoID      *string            `json:"turno_id" validate:"omitempty,uuid"`
}

type ArmadoFilter struct {
	RamoID     string `form:"ramo_id"     validate:"omitempty,uuid"`
	EmpleadoID string `form:"empleado_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FlorUsadaResponse struct {
	FlorID   string `json:"flor_id"`
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

type VariacionResponse struct {
	Estandar   int `json:"estandar"`
	Usado      int `json:"usado"`
	Diferencia int `json:"diferencia"`
}

type ArmadoResponse struct {
	ID           string                       `json:"id"`
	RamoID       string                       `json:"ramo_id"`
	RamoNombre   string                       `json:"ramo_nombre"`
	RamoStock    int                          `json:"ramo_stock"`
	EmpleadoID   string                       `json:"empleado_id"`
	TurnoID      *string                      `json:"turno_id"`
	FloresUsadas []FlorUsadaResponse          `json:"flores_usadas"`
	Variacion    map[string]VariacionResponse `json:"variacion_formula"`
	CreatedAt    string                       `json:"created_at"`
}

type ArmadoListResponse struct {
	Data  []ArmadoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
