package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/batches.
type CreateBatchRequest struct {
	ProductID       string           `json:"product_id"`
	BatchNumber     string           `json:"batch_number"`
	Quantity        int64            `json:"quantity"` // inicial, >= 0
	CostPrice       *decimal.Decimal `json:"cost_price,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ManufactureDate *time.Time       `json:"manufacture_date,omitempty"`
	PurchaseOrderID *string          `json:"purchase_order_id,omitempty"`
}

// AdjustBatchRequest body para POST /api/batches/:id/adjust.
type AdjustBatchRequest struct {
	Delta int64  `json:"delta"`
	Note  string `json:"note,omitempty"`
}

// BatchResponse representación de lote en respuestas.
type BatchResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	BatchNumber     string           `json:"batch_number"`
	Quantity        int64            `json:"quantity"`
	CostPrice       *decimal.Decimal `json:"cost_price,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ManufactureDate *time.Time       `json:"manufacture_date,omitempty"`
	PurchaseOrderID *string          `json:"purchase_order_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
