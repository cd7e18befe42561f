package handler

import (
	"net/http"

	"github.com/Shoelmaxi/floreria-web/internal/apierror"
	"github.com/Shoelmaxi/floreria-web/internal/dto"
	"github.com/Shoelmaxi/floreria-web/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler {
	return &TurnosHandler{svc: svc}
}

// Abrir godoc
// @Summary Abrir turno del empleado autenticado
// @Tags turnos
// @Produce json
// @Success 201 {object} dto.TurnoResponse
// @Failure 409 {object} apierror.APIError "ya hay un turno abierto"
// @Router /v1/turnos/abrir [post]
func (h *TurnosHandler) Abrir(c *gin.Context) {
	resp, err := h.svc.Abrir(c.Request.Context(), claimsUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TurnosHandler) Cerrar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeValidacion, "ID inválido"))
		return
	}
	var req dto.CerrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id, req.Notas)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actual returns the caller's open turno, or 200 with null when none.
func (h *TurnosHandler) Actual(c *gin.Context) {
	resp, err := h.svc.Actual(c.Request.Context(), claimsUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TurnosHandler) Listar(c *gin.Context) {
	var empleadoID *uuid.UUID
	if s := c.Query("empleado_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeValidacion, "empleado_id inválido"))
			return
		}
		empleadoID = &id
	}

	page, limit := 1, 50
	if p, err := parseIntQuery(c, "page"); err == nil && p > 0 {
		page = p
	}
	if l, err := parseIntQuery(c, "limit"); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	turnos, total, err := h.svc.Listar(c.Request.Context(), empleadoID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  turnos,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
