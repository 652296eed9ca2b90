package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para bodegas.
type LocationUseCase struct {
	repo      repository.LocationRepository
	stockRepo repository.ProductStockRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, stockRepo repository.ProductStockRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, stockRepo: stockRepo}
}

// Create crea una bodega de la empresa.
func (uc *LocationUseCase) Create(companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una bodega de la empresa.
func (uc *LocationUseCase) GetByID(companyID, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil || location.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(location), nil
}

// Update actualiza nombre o dirección de una bodega.
func (uc *LocationUseCase) Update(companyID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil || location.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.NewValidationError("name", "requerido")
		}
		location.Name = *in.Name
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista las bodegas de la empresa.
func (uc *LocationUseCase) List(companyID string, page dto.PageRequest) ([]dto.LocationResponse, error) {
	locations, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// Delete elimina una bodega. Con stock remanente se rechaza: primero hay
// que trasladar o ajustar lo que queda.
func (uc *LocationUseCase) Delete(companyID, id string) error {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if location == nil || location.CompanyID != companyID {
		return domain.ErrNotFound
	}
	total, err := uc.stockRepo.TotalByLocation(id)
	if err != nil {
		return err
	}
	if total > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
