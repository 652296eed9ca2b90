package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementación del puerto ActivityLogRepository sobre PostgreSQL.
// Append-only; lo escribe el registrador best-effort fuera de la tx principal.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create apendea una entrada de bitácora.
func (r *ActivityLogRepo) Create(log *entity.ActivityLog) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO activity_logs (id, company_id, user_id, entity_type, entity_id, action, changes, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		log.ID, log.CompanyID, log.UserID, log.EntityType, log.EntityID, log.Action,
		log.Changes, log.Note, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// ListByCompany lista la bitácora de la empresa, más reciente primero.
func (r *ActivityLogRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ActivityLog, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, company_id, user_id, entity_type, entity_id, action, changes, note, created_at
		 FROM activity_logs WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.UserID, &l.EntityType, &l.EntityID,
			&l.Action, &l.Changes, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
