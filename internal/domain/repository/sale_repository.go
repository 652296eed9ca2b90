package repository

import "github.com/tu-usuario/bodega-pos/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	// Create persiste cabecera y líneas (misma transacción del caller).
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error)
}
