package sales

import (
	"context"

	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

// TxRunner ejecuta el checkout dentro de una transacción de BD.
// Cabecera de venta, líneas, descuentos de stock y movimientos del
// ledger confirman o revierten como una sola unidad.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
