package repository

import (
	"time"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// ProductStockRepository define el puerto para el stock por producto+bodega.
// Usado dentro de transacciones para garantizar consistencia.
type ProductStockRepository interface {
	Get(productID, locationID string) (*entity.ProductStock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); si no existe devuelve
	// una fila en cero sin persistir.
	GetForUpdate(productID, locationID string) (*entity.ProductStock, error)
	Upsert(stock *entity.ProductStock) error
	// AddQuantity suma delta sobre la fila producto+bodega de forma atómica,
	// creándola si no existe. A diferencia de Upsert no escribe un valor
	// absoluto, así que es seguro sin bloquear la fila antes.
	AddQuantity(productID, locationID string, delta int64, now time.Time) error
	ListByProduct(productID string) ([]*entity.ProductStock, error)
	// TotalByLocation suma las existencias en una bodega (guard de borrado).
	TotalByLocation(locationID string) (int64, error)
}
