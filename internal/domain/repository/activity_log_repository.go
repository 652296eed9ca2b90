package repository

import "github.com/tu-usuario/bodega-pos/internal/domain/entity"

// ActivityLogRepository define el puerto de persistencia para la bitácora de
// actividad. Append-only; el registrador best-effort es su único escritor.
type ActivityLogRepository interface {
	Create(log *entity.ActivityLog) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.ActivityLog, error)
}
