package repository

import "github.com/tu-usuario/bodega-pos/internal/domain/entity"

// LocationRepository define el puerto de persistencia para bodegas.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error)
	Delete(id string) error
}
