// Package purchase contiene la máquina de estados de órdenes de compra
// como función pura de transición, testeable sin base de datos.
package purchase

import (
	"fmt"

	"github.com/tu-usuario/bodega-pos/internal/domain"
)

// Status estado de una orden de compra (enumeración cerrada).
type Status string

const (
	StatusDraft     Status = "draft"
	StatusOrdered   Status = "ordered"
	StatusPartial   Status = "partial"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// IsValid indica si el estado pertenece a la enumeración.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusOrdered, StatusPartial, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal indica si no hay transiciones de salida desde el estado.
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// transitions tabla de transiciones permitidas.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusOrdered, StatusCancelled},
	StatusOrdered:   {StatusPartial, StatusReceived, StatusCancelled},
	StatusPartial:   {StatusReceived, StatusCancelled},
	StatusReceived:  {},
	StatusCancelled: {},
}

// InvalidTransitionError transición no permitida por la tabla.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("no se puede cambiar el estado de %s a %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == domain.ErrInvalidTransition
}

// Transition valida la transición from → to contra la tabla.
// Devuelve InvalidTransitionError si no está permitida.
func Transition(from, to Status) error {
	if !from.IsValid() || !to.IsValid() {
		return &InvalidTransitionError{From: from, To: to}
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// ReceiptProgress resume el avance de recepción de las líneas de una orden.
type ReceiptProgress struct {
	AnyReceived bool
	AllReceived bool
}

// StatusAfterReceipt calcula el estado al que debe avanzar una orden después
// de procesar recepciones: received si todas las líneas están completas,
// partial si hay avance incompleto. Es un efecto del primitivo de recepción,
// no una transición invocable por sí sola.
func StatusAfterReceipt(p ReceiptProgress) Status {
	if p.AllReceived {
		return StatusReceived
	}
	return StatusPartial
}
