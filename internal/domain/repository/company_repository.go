package repository

import "github.com/tu-usuario/bodega-pos/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para empresas (tenants).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
	// ListActiveIDs devuelve los IDs de empresas activas (jobs programados).
	ListActiveIDs() ([]string, error)
}
