package stock

import (
	"time"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// ProductMovements devuelve el historial del ledger de un producto,
// más reciente primero, con rango de fechas opcional.
func (uc *UseCase) ProductMovements(companyID, productID string, from, to *time.Time, page dto.PageRequest) ([]*entity.StockMovement, error) {
	if _, err := uc.requireProduct(companyID, productID); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByProduct(productID, from, to, page.Limit, page.Offset)
}

// CompanyMovements devuelve el ledger completo de la empresa paginado.
func (uc *UseCase) CompanyMovements(companyID string, page dto.PageRequest) ([]*entity.StockMovement, error) {
	return uc.movementRepo.ListByCompany(companyID, page.Limit, page.Offset)
}

// ProductStocks devuelve las existencias por bodega de un producto.
func (uc *UseCase) ProductStocks(companyID, productID string) ([]*entity.ProductStock, error) {
	if _, err := uc.requireProduct(companyID, productID); err != nil {
		return nil, err
	}
	return uc.stockRepo.ListByProduct(productID)
}
