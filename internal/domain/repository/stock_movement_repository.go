package repository

import (
	"time"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el ledger de
// movimientos. Solo hay Create y lecturas: las filas son inmutables.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockMovement, error)
}
