package handler

import (
	"net/http"

	"github.com/Shoelmaxi/floreria-web/internal/apierror"
	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/service"

	"github.com/gin-gonic/gin"
)

type ArmadosHandler struct{ svc service.ArmadoService }

func NewArmadosHandler(svc service.ArmadoService) *ArmadosHandler {
	return &ArmadosHandler{svc: svc}
}

// Armar godoc
// @Summary Armar un ramo: consume flores según uso real y suma 1 al stock del ramo
// @Tags armados
// @Accept json
// @Produce json
// @Param body body dto.ArmarRamoRequest true "Flores realmente usadas"
// @Success 201 {object} dto.ArmadoResponse
// @Failure 409 {object} apierror.APIError "stock insuficiente"
// @Failure 422 {object} apierror.APIError "sin fórmula / componente faltante"
// @Router /v1/armados [post]
func (h *ArmadosHandler) Armar(c *gin.Context) {
	var req dto.ArmarRamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Armar(c.Request.Context(), claimsUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ArmadosHandler) Listar(c *gin.Context) {
	var filter dto.ArmadoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeValidacion, err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
