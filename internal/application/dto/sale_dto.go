package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutLine una línea del carrito al momento del checkout.
type CheckoutLine struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // nil = precio de catálogo
}

// CheckoutRequest body para POST /api/sales/checkout.
type CheckoutRequest struct {
	CustomerID *string        `json:"customer_id,omitempty"`
	Lines      []CheckoutLine `json:"lines"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID         string             `json:"id"`
	Number     string             `json:"number"`
	CustomerID *string            `json:"customer_id,omitempty"`
	Status     string             `json:"status"`
	Total      decimal.Decimal    `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []SaleItemResponse `json:"items"`
}
