package stock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/stock"
)

// Caso base: delta positivo siempre pasa.
func TestApplyDelta_Entrada(t *testing.T) {
	result, err := stock.ApplyDelta("producto", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), result)
}

// Salida que deja exactamente cero: permitida (el guard es >= 0, no > 0).
func TestApplyDelta_SalidaACero(t *testing.T) {
	result, err := stock.ApplyDelta("producto", 10, -10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result)
}

// Escenario concreto de la regla: producto en 10, ajuste de -15 → rechazado
// con déficit 5 y la cantidad no cambia (el caller no escribe nada).
func TestApplyDelta_RechazaNegativo(t *testing.T) {
	_, err := stock.ApplyDelta("producto", 10, -15)
	require.Error(t, err)

	var negErr *domain.NegativeStockError
	require.ErrorAs(t, err, &negErr, "debe ser NegativeStockError")
	assert.Equal(t, "producto", negErr.Entity)
	assert.Equal(t, int64(5), negErr.Deficit, "el déficit debe ser lo que faltó")

	assert.True(t, errors.Is(err, domain.ErrInsufficientStock),
		"NegativeStockError debe satisfacer errors.Is con ErrInsufficientStock")
}

// Desde cero, cualquier decremento es rechazado.
func TestApplyDelta_DesdeCero(t *testing.T) {
	_, err := stock.ApplyDelta("lote", 0, -1)
	require.Error(t, err)

	var negErr *domain.NegativeStockError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, int64(1), negErr.Deficit)
}

func TestApplyTarget_ObjetivoValido(t *testing.T) {
	delta, err := stock.ApplyTarget("producto", 10, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(15), delta)

	delta, err = stock.ApplyTarget("producto", 10, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(-6), delta)
}

func TestApplyTarget_ObjetivoNegativo(t *testing.T) {
	_, err := stock.ApplyTarget("producto", 10, -3)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}
