// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// Machine-readable error codes. Clients branch on Code, not on Detail —
// the taxonomy is part of the API contract and never collapses into a
// single generic failure.
const (
	CodeValidacion            = "validacion"
	CodeNoEncontrado          = "no_encontrado"
	CodeStockInsuficiente     = "stock_insuficiente"
	CodeFormulaDuplicada      = "formula_duplicada"
	CodeTurnoYaAbierto        = "turno_ya_abierto"
	CodeSinTurnoAbierto       = "sin_turno_abierto"
	CodeCarritoVacio          = "carrito_vacio"
	CodeMontoRequerido        = "monto_requerido"
	CodeMetodoPagoRequerido   = "metodo_pago_requerido"
	CodeSinFormula            = "sin_formula"
	CodeComponenteFaltante    = "componente_faltante"
	CodeComponenteDesconocido = "componente_desconocido"
	CodeCantidadInvalida      = "cantidad_invalida"
	CodeNoAutenticado         = "no_autenticado"
	CodePermisosInsuficientes = "permisos_insuficientes"
	CodeRateLimit             = "rate_limit"
	CodeErrorInterno          = "error_interno"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func New(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeValidacion, Detail: "Error de validacion", Fields: fields}
}
