package handler

import (
	"net/http"

	"github.com/Shoelmaxi/floreria-web/internal/apierror"
	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Abastecimiento godoc
// @Summary Registrar ingreso de stock
// @Tags inventario
// @Accept json
// @Produce json
// @Param body body dto.AbastecimientoRequest true "Abastecimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventario/abastecimiento [post]
func (h *InventarioHandler) Abastecimiento(c *gin.Context) {
	var req dto.AbastecimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarAbastecimiento(c.Request.Context(), claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Merma godoc
// @Summary Registrar pérdida de stock (flores marchitas, roturas)
// @Tags inventario
// @Accept json
// @Produce json
// @Param body body dto.MermaRequest true "Merma"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 409 {object} apierror.APIError "stock insuficiente"
// @Router /v1/inventario/merma [post]
func (h *InventarioHandler) Merma(c *gin.Context) {
	var req dto.MermaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMerma(c.Request.Context(), claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) AjusteManual(c *gin.Context) {
	var req dto.AjusteManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjusteManual(c.Request.Context(), claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeValidacion, err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HistorialProducto godoc
// @Summary Historial completo de movimientos de un producto
// @Tags inventario
// @Produce json
// @Param id path string true "ID del producto"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id}/movimientos [get]
func (h *InventarioHandler) HistorialProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeValidacion, "id inválido"))
		return
	}
	items, err := h.svc.HistorialProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

func (h *InventarioHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
