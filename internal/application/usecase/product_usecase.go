package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	"github.com/tu-usuario/bodega-pos/pkg/normalize"
)

// ProductUseCase casos de uso CRUD para productos. Quantity y Cost se mutan
// solo vía los primitivos transaccionales del motor de stock, nunca acá.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con cantidad y costo en cero.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" {
		return nil, domain.NewValidationError("sku", "requerido")
	}
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return nil, domain.NewValidationError("low_stock_threshold", "no puede ser negativo")
	}
	existing, err := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		SKU:               in.SKU,
		Barcode:           in.Barcode,
		Name:              in.Name,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		SupplierID:        in.SupplierID,
		Price:             in.Price,
		Cost:              decimal.Zero,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza campos de catálogo. Quantity nunca se toca por esta vía.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = in.SupplierID
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError("price", "no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.NewValidationError("low_stock_threshold", "no puede ser negativo")
		}
		product.LowStockThreshold = in.LowStockThreshold
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la empresa. El término de búsqueda se normaliza
// (minúsculas, sin tildes) antes de consultar.
func (uc *ProductUseCase) List(companyID, search string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListByCompany(companyID, normalize.SearchTerm(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Delete elimina un producto de la empresa. Con existencias se rechaza:
// primero se ajusta a cero (dejando rastro en el ledger).
func (uc *ProductUseCase) Delete(companyID, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if product.Quantity != 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		Name:              p.Name,
		Description:       p.Description,
		CategoryID:        p.CategoryID,
		SupplierID:        p.SupplierID,
		Price:             p.Price,
		Cost:              p.Cost,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
