package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        *string         `json:"category_id,omitempty"`
	SupplierID        *string         `json:"supplier_id,omitempty"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold *int64          `json:"low_stock_threshold,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Barcode           *string          `json:"barcode,omitempty"`
	CategoryID        *string          `json:"category_id,omitempty"`
	SupplierID        *string          `json:"supplier_id,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	LowStockThreshold *int64           `json:"low_stock_threshold,omitempty"`
}

// ImportProductRow una fila de importación masiva de productos.
type ImportProductRow struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode,omitempty"`
	Price             decimal.Decimal `json:"price"`
	InitialQuantity   int64           `json:"initial_quantity"`
	LowStockThreshold *int64          `json:"low_stock_threshold,omitempty"`
}

// ImportProductsRequest body para POST /api/products/import.
type ImportProductsRequest struct {
	Rows []ImportProductRow `json:"rows"`
}

// ProductResponse representación de producto en respuestas.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        *string         `json:"category_id,omitempty"`
	SupplierID        *string         `json:"supplier_id,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	Quantity          int64           `json:"quantity"`
	LowStockThreshold *int64          `json:"low_stock_threshold,omitempty"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
