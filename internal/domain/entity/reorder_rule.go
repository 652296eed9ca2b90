package entity

import "time"

// ReorderRule configuración de reposición por producto.
// La consume read-only el motor de sugerencias; no muta stock.
type ReorderRule struct {
	ID              string
	CompanyID       string
	ProductID       string
	ReorderPoint    int64
	ReorderQuantity int64
	SupplierID      *string // proveedor preferido
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
