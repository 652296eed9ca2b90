package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/bodega-pos/internal/domain/purchase"
)

// PurchaseOrder representa una orden de compra a un proveedor.
// El estado avanza según la máquina de estados de purchase.Transition;
// OrderedAt se estampa al entrar a "ordered" y ReceivedAt al entrar a "received".
type PurchaseOrder struct {
	ID          string
	CompanyID   string
	OrderNumber string // único por empresa
	SupplierID  string
	Status      purchase.Status
	Notes       string
	OrderedAt   *time.Time
	ReceivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []PurchaseOrderItem
}

// PurchaseOrderItem es una línea de la orden.
// Invariante: 0 <= ReceivedQuantity <= OrderedQuantity.
// ProductID nil indica una línea libre no atada al catálogo (no mueve stock al recibir).
type PurchaseOrderItem struct {
	ID               string
	OrderID          string
	ProductID        *string
	Description      string
	OrderedQuantity  int64
	ReceivedQuantity int64
	UnitCost         decimal.Decimal
}

// FullyReceived indica si la línea ya se recibió completa.
func (i *PurchaseOrderItem) FullyReceived() bool {
	return i.ReceivedQuantity >= i.OrderedQuantity
}
