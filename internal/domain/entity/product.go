package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
//
// Quantity es el contador agregado de existencias del producto y solo se muta
// a través de los casos de uso transaccionales del motor de stock (nunca por
// asignación directa desde handlers). Invariante: Quantity >= 0 siempre.
//
// Quantity y las filas de ProductStock por bodega se llevan como contadores
// independientes: la suma por bodega no tiene por qué coincidir con el
// agregado (stock sin ubicar). Ver notas de diseño.
type Product struct {
	ID                string
	CompanyID         string
	SKU               string // código único por empresa
	Barcode           string
	Name              string
	Description       string
	CategoryID        *string
	SupplierID        *string
	Price             decimal.Decimal // precio de venta
	Cost              decimal.Decimal // costo promedio ponderado (inicia en 0)
	Quantity          int64           // existencias agregadas, >= 0
	LowStockThreshold *int64          // umbral de stock bajo (opcional)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el producto está en o bajo su umbral de stock bajo.
func (p *Product) IsLowStock() bool {
	return p.LowStockThreshold != nil && p.Quantity <= *p.LowStockThreshold
}
