package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest una línea de orden de compra nueva.
type CreateOrderItemRequest struct {
	ProductID   *string         `json:"product_id,omitempty"` // nil = línea libre
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// CreateOrderRequest body para POST /api/purchase-orders (nace en draft).
type CreateOrderRequest struct {
	SupplierID string                   `json:"supplier_id"`
	Notes      string                   `json:"notes,omitempty"`
	Items      []CreateOrderItemRequest `json:"items"`
}

// ChangeOrderStatusRequest body para POST /api/purchase-orders/:id/status.
type ChangeOrderStatusRequest struct {
	Status string `json:"status"`
}

// ReceiveLine una línea recibida: item de la orden y cantidad entrante.
type ReceiveLine struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// ReceiveOrderRequest body para POST /api/purchase-orders/:id/receive.
type ReceiveOrderRequest struct {
	Lines []ReceiveLine `json:"lines"`
}

// OrderItemResponse línea de orden en respuestas.
type OrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        *string         `json:"product_id,omitempty"`
	Description      string          `json:"description,omitempty"`
	OrderedQuantity  int64           `json:"ordered_quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// OrderResponse orden de compra en respuestas.
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	SupplierID  string              `json:"supplier_id"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	OrderedAt   *time.Time          `json:"ordered_at,omitempty"`
	ReceivedAt  *time.Time          `json:"received_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []OrderItemResponse `json:"items"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
