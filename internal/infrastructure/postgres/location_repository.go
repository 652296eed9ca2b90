package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una bodega nueva.
func (r *LocationRepo) Create(location *entity.Location) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO locations (id, company_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		location.ID, location.CompanyID, location.Name, location.Address,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID, o nil si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(context.Background(),
		`SELECT id, company_id, name, address, created_at, updated_at FROM locations WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update actualiza nombre y dirección.
func (r *LocationRepo) Update(location *entity.Location) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE locations SET name = $2, address = $3, updated_at = $4 WHERE id = $1`,
		location.ID, location.Name, location.Address, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// ListByCompany lista las bodegas de la empresa.
func (r *LocationRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, company_id, name, address, created_at, updated_at
		 FROM locations WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// Delete elimina una bodega (el caso de uso ya validó que no tenga stock).
func (r *LocationRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
