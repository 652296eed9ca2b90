package purchasing

import (
	"context"

	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

// TxRunner ejecuta operaciones de órdenes de compra en una transacción.
// La recepción toca tres tablas a la vez (líneas, productos, ledger) y
// además recalcula el estado de la cabecera; todo confirma o revierte junto.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}
