package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrOverReceive        = errors.New("cantidad recibida excede la ordenada")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
)

// NegativeStockError indica que una mutación dejaría la cantidad por debajo de cero.
// Deficit es cuánto faltó para completar la operación (siempre > 0).
type NegativeStockError struct {
	Entity  string // "producto", "stock en bodega", "lote"
	Deficit int64
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s: faltan %d unidades", e.Entity, e.Deficit)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *NegativeStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// OverReceiveError indica un intento de recibir más unidades de las ordenadas en una línea.
type OverReceiveError struct {
	ItemID   string
	Ordered  int64
	Received int64 // ya recibido
	Incoming int64 // lo que se intentó recibir
}

func (e *OverReceiveError) Error() string {
	return fmt.Sprintf("línea %s: recibido %d + entrante %d excede lo ordenado %d",
		e.ItemID, e.Received, e.Incoming, e.Ordered)
}

func (e *OverReceiveError) Is(target error) bool {
	return target == ErrOverReceive
}

// ValidationError agrupa mensajes de validación por campo para que la UI
// pueda resaltar inputs específicos.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validación fallida"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError construye un ValidationError con un solo campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// Add agrega un mensaje a un campo. Devuelve el mismo error para encadenar.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}
