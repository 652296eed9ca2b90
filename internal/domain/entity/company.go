package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
// Todo el inventario, ventas y órdenes están scoped a una Company.
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificación tributaria (opcional)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
