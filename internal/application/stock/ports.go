package stock

import (
	"context"

	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// check de cantidad, contadores y append al ledger confirman o revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.ProductStockRepository,
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
	) error) error
}
