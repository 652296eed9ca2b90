package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para que el
	// guard de cantidad lea bajo la misma transacción que escribe.
	GetForUpdate(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateQuantity(productID string, quantity int64) error
	UpdateCost(productID string, cost decimal.Decimal) error
	ListByCompany(companyID, search string, limit, offset int) ([]*entity.Product, error)
	// ListByIDs devuelve solo los productos de la empresa cuyos IDs coinciden
	// (los IDs de otra empresa simplemente no aparecen en el resultado).
	ListByIDs(companyID string, ids []string) ([]*entity.Product, error)
	Delete(id string) error
}
