// Package stock contiene las reglas puras del motor de inventario
// (sin dependencias de persistencia).
package stock

import "github.com/tu-usuario/bodega-pos/internal/domain"

// ApplyDelta aplica un delta firmado sobre la cantidad actual y devuelve la
// cantidad resultante si es >= 0. Si el resultado sería negativo devuelve
// NegativeStockError con el déficit.
//
// La cantidad actual DEBE haberse leído dentro de la misma transacción que
// escribirá el resultado (SELECT FOR UPDATE): un valor leído antes de abrir
// la transacción permite que dos decrementos concurrentes pasen el guard
// contra el mismo stale y dejen la cantidad negativa.
func ApplyDelta(entityName string, current, delta int64) (int64, error) {
	result := current + delta
	if result < 0 {
		return 0, &domain.NegativeStockError{Entity: entityName, Deficit: -result}
	}
	return result, nil
}

// ApplyTarget valida una cantidad objetivo absoluta (>= 0) y devuelve el delta
// que la produce desde la cantidad actual.
func ApplyTarget(entityName string, current, target int64) (int64, error) {
	if target < 0 {
		return 0, &domain.NegativeStockError{Entity: entityName, Deficit: -target}
	}
	return target - current, nil
}
