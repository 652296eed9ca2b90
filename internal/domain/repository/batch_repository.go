package repository

import "github.com/tu-usuario/bodega-pos/internal/domain/entity"

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Batch, error)
	GetByProductAndNumber(productID, batchNumber string) (*entity.Batch, error)
	UpdateQuantity(batchID string, quantity int64) error
	ListByProduct(productID string, limit, offset int) ([]*entity.Batch, error)
	Delete(id string) error
}
