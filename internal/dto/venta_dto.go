package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
}

// RegistrarVentaRequest — monto_total and metodo_pago are mandatory for
// in-store sales; for delivery-platform sales (es_delivery) the server
// discards them even when present.
type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items" validate:"dive"`
	MontoTotal *decimal.Decimal   `json:"monto_total"`
	MetodoPago *string            `json:"metodo_pago" validate:"omitempty,oneof=efectivo transferencia debito"`
	EsDelivery bool               `json:"es_delivery"`
	TurnoID    *string            `json:"turno_id" validate:"omitempty,uuid"`
	Notas      *string            `json:"notas"`
}

type VentaFilter struct {
	Fecha      string `form:"fecha"` // YYYY-MM-DD, default: hoy
	EmpleadoID string `form:"empleado_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID string `json:"producto_id"`
	Producto   string `json:"producto"`
	Cantidad   int    `json:"cantidad"`
	// StockRestante is the authoritative post-sale stock, so the caller can
	// refresh its snapshot without re-querying the catalog.
	StockRestante int `json:"stock_restante"`
}

type VentaResponse struct {
	ID         string              `json:"id"`
	EmpleadoID string              `json:"empleado_id"`
	TurnoID    *string             `json:"turno_id"`
	Fecha      string              `json:"fecha"`
	MontoTotal *decimal.Decimal    `json:"monto_total"`
	MetodoPago *string             `json:"metodo_pago"`
	EsDelivery bool                `json:"es_delivery"`
	Items      []ItemVentaResponse `json:"items"`
	Notas      *string             `json:"notas"`
	CreatedAt  string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
