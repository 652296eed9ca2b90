package entity

import "time"

// Supplier representa un proveedor al que se emiten órdenes de compra.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string // único por empresa
	Contact   string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
