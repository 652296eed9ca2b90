package entity

import "time"

// Location representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Solo puede eliminarse cuando no queda stock en ella.
type Location struct {
	ID        string
	CompanyID string
	Name      string // único por empresa
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
