package dto

import "time"

// AdjustProductRequest body para POST /api/stock/adjust.
// Delta es firmado: positivo suma, negativo resta.
type AdjustProductRequest struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Note      string `json:"note,omitempty"`
}

// TransferRequest body para POST /api/stock/transfer.
type TransferRequest struct {
	ProductID      string `json:"product_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int64  `json:"quantity"` // siempre positiva
	Note           string `json:"note,omitempty"`
}

// BulkAdjustLine una línea de ajuste masivo.
type BulkAdjustLine struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
}

// BulkAdjustRequest body para POST /api/stock/bulk-adjust.
// Todo-o-nada: si una sola línea dejaría stock negativo no se aplica ninguna.
type BulkAdjustRequest struct {
	Lines []BulkAdjustLine `json:"lines"`
	Note  string           `json:"note,omitempty"`
}

// BulkDeleteRequest body para POST /api/products/bulk-delete.
type BulkDeleteRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// MovementResponse una fila del ledger en respuestas.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	LocationID    *string   `json:"location_id,omitempty"`
	BatchID       *string   `json:"batch_id,omitempty"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	Reference     string    `json:"reference,omitempty"`
	ReferenceType string    `json:"reference_type,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
