package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/Shoelmaxi/floreria-web/internal/apierror"
	"github.com/Shoelmaxi/floreria-web/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeValidacion, "JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service-layer errors onto the HTTP error taxonomy.
// Every business rejection keeps its own code so clients can branch on it;
// anything unrecognized becomes a 500 through the ErrorHandler middleware.
func respondError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	var validacion *service.ValidacionError
	var stock *service.StockInsuficienteError
	var faltante *service.ComponenteFaltanteError
	var desconocido *service.ComponenteDesconocidoError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(apierror.CodeNoEncontrado, err.Error()))
	case errors.As(err, &validacion):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeValidacion, err.Error()))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.New(apierror.CodeStockInsuficiente, err.Error()))
	case errors.As(err, &faltante):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeComponenteFaltante, err.Error()))
	case errors.As(err, &desconocido):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeComponenteDesconocido, err.Error()))
	case errors.Is(err, service.ErrCarritoVacio):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeCarritoVacio, err.Error()))
	case errors.Is(err, service.ErrMontoRequerido):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeMontoRequerido, err.Error()))
	case errors.Is(err, service.ErrMetodoPagoRequerido):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeMetodoPagoRequerido, err.Error()))
	case errors.Is(err, service.ErrSinFormula):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeSinFormula, err.Error()))
	case errors.Is(err, service.ErrTurnoYaAbierto):
		c.JSON(http.StatusConflict, apierror.New(apierror.CodeTurnoYaAbierto, err.Error()))
	case errors.Is(err, service.ErrSinTurnoAbierto):
		c.JSON(http.StatusConflict, apierror.New(apierror.CodeSinTurnoAbierto, err.Error()))
	case errors.Is(err, service.ErrFormulaDuplicada):
		c.JSON(http.StatusConflict, apierror.New(apierror.CodeFormulaDuplicada, err.Error()))
	case errors.Is(err, service.ErrCantidadInvalida):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeCantidadInvalida, err.Error()))
	default:
		_ = c.Error(err)
	}
}

func parseIntQuery(c *gin.Context, key string) (int, error) {
	return strconv.Atoi(c.Query(key))
}
