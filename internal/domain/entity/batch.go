package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote de un producto con cantidad propia.
// Sus cambios de cantidad generan movimientos en el ledger con referencia al lote.
// Solo puede eliminarse cuando Quantity == 0 (misma filosofía del guard de
// stock negativo, un nivel más abajo).
type Batch struct {
	ID              string
	CompanyID       string
	ProductID       string
	BatchNumber     string // único por producto
	Quantity        int64  // >= 0
	CostPrice       *decimal.Decimal
	ExpiryDate      *time.Time
	ManufactureDate *time.Time
	PurchaseOrderID *string // orden de compra que originó el lote (opcional)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
