package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. El checkout solo crea ventas completadas;
// el forecast de demanda agrega únicamente ventas en SaleCompleted.
const (
	SaleCompleted = "completed"
	SaleCancelled = "cancelled"
)

// Sale representa una venta POS. El checkout descuenta stock línea por línea
// y escribe un movimiento "out" por línea referenciando la venta.
type Sale struct {
	ID         string
	CompanyID  string
	Number     string
	CustomerID *string
	Status     string
	Total      decimal.Decimal
	CreatedBy  string
	CreatedAt  time.Time
	Items      []SaleItem
}

// SaleItem es una línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}
