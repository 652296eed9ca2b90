package entity

import "time"

// ProductStock representa las existencias de un producto en una bodega
// (identidad compuesta producto+bodega). Invariante por fila: Quantity >= 0.
type ProductStock struct {
	ProductID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}
