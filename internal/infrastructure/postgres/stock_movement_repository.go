package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, company_id, product_id, location_id, batch_id, type, quantity, reference, reference_type, note, created_by, created_at`

// StockMovementRepo implementación del puerto StockMovementRepository sobre PostgreSQL.
// El ledger es append-only: solo INSERT y SELECT, jamás UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create apendea un movimiento al ledger.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO stock_movements (id, company_id, product_id, location_id, batch_id, type, quantity, reference, reference_type, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.CompanyID, m.ProductID, m.LocationID, m.BatchID, m.Type, m.Quantity,
		m.Reference, m.ReferenceType, m.Note, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de un producto, más reciente primero,
// con rango de fechas opcional.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.list(query, args...)
}

// ListByCompany lista el ledger completo de la empresa paginado.
func (r *StockMovementRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, companyID, limit, offset)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.ProductID, &m.LocationID, &m.BatchID, &m.Type,
			&m.Quantity, &m.Reference, &m.ReferenceType, &m.Note, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
