package repository

import "github.com/tu-usuario/bodega-pos/internal/domain/entity"

// ReorderRuleRepository define el puerto de persistencia para reglas de reposición.
// El motor de sugerencias las consume read-only.
type ReorderRuleRepository interface {
	Upsert(rule *entity.ReorderRule) error
	GetByProduct(companyID, productID string) (*entity.ReorderRule, error)
	ListActiveByCompany(companyID string) ([]*entity.ReorderRule, error)
	Delete(id string) error
}
