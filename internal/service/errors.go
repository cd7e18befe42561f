package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Business-rule rejections. Handlers map these onto the API error
// taxonomy with errors.Is / errors.As — they are never collapsed into
// a single generic failure.
var (
	ErrCarritoVacio        = errors.New("la venta no tiene productos")
	ErrMontoRequerido      = errors.New("debe ingresar un monto válido")
	ErrMetodoPagoRequerido = errors.New("debe seleccionar un método de pago")
	ErrSinFormula          = errors.New("el ramo no tiene fórmula definida")
	ErrTurnoYaAbierto      = errors.New("ya existe un turno abierto para este empleado")
	ErrSinTurnoAbierto     = errors.New("no hay turno abierto para cerrar")
	ErrFormulaDuplicada    = errors.New("ya existe una fórmula activa para ese ramo y esa flor")
	ErrCantidadInvalida    = errors.New("la cantidad debe ser mayor a 0")
)

// NotFoundError identifies the missing entity so the UI can name it.
type NotFoundError struct {
	Entidad string
	ID      uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entidad, e.ID)
}

// ValidacionError is a recoverable bad-input rejection.
type ValidacionError struct {
	Campo  string
	Detail string
}

func (e *ValidacionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Campo, e.Detail)
}

// StockInsuficienteError names the short product and both quantities, so
// the UI can show "Disponible: 8, Solicitado: 10" inline.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	Nombre     string
	Disponible int
	Solicitado int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s. Disponible: %d, Solicitado: %d",
		e.Nombre, e.Disponible, e.Solicitado)
}

// Faltante returns the shortfall.
func (e *StockInsuficienteError) Faltante() int { return e.Solicitado - e.Disponible }

// ComponenteFaltanteError: a formula flower was omitted from the
// employee's actual-usage input. Assemblies reject the omission rather
// than silently defaulting to the standard quantity.
type ComponenteFaltanteError struct {
	FlorID uuid.UUID
	Nombre string
}

func (e *ComponenteFaltanteError) Error() string {
	return fmt.Sprintf("falta indicar la cantidad usada de %s", e.Nombre)
}

// ComponenteDesconocidoError: an input flower does not match any product.
type ComponenteDesconocidoError struct {
	FlorID uuid.UUID
}

func (e *ComponenteDesconocidoError) Error() string {
	return fmt.Sprintf("flor %s no encontrada", e.FlorID)
}
