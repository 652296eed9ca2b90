package usecase

import (
	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

// ActivityUseCase consultas de lectura sobre la bitácora de actividad.
type ActivityUseCase struct {
	repo repository.ActivityLogRepository
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(repo repository.ActivityLogRepository) *ActivityUseCase {
	return &ActivityUseCase{repo: repo}
}

// List lista la bitácora de la empresa, más reciente primero.
func (uc *ActivityUseCase) List(companyID string, page dto.PageRequest) ([]dto.ActivityLogResponse, error) {
	logs, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ActivityLogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Action:     l.Action,
			Changes:    l.Changes,
			Note:       l.Note,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out, nil
}
