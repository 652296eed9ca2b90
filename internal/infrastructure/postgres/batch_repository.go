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

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, company_id, product_id, batch_number, quantity, cost_price, expiry_date, manufacture_date, purchase_order_id, created_at, updated_at`

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.ProductID, &b.BatchNumber, &b.Quantity, &b.CostPrice,
		&b.ExpiryDate, &b.ManufactureDate, &b.PurchaseOrderID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create persiste un nuevo lote.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO batches (id, company_id, product_id, batch_number, quantity, cost_price, expiry_date, manufacture_date, purchase_order_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		batch.ID, batch.CompanyID, batch.ProductID, batch.BatchNumber, batch.Quantity,
		batch.CostPrice, batch.ExpiryDate, batch.ManufactureDate, batch.PurchaseOrderID,
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID, o nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(context.Background(),
		`SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE). Solo dentro de una tx.
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(context.Background(),
		`SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock batch: %w", err)
	}
	return b, nil
}

// GetByProductAndNumber obtiene un lote por producto y número, o nil si no existe.
func (r *BatchRepo) GetByProductAndNumber(productID, batchNumber string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(context.Background(),
		`SELECT `+batchColumns+` FROM batches WHERE product_id = $1 AND batch_number = $2`,
		productID, batchNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch by number: %w", err)
	}
	return b, nil
}

// UpdateQuantity fija la cantidad del lote (motor de stock, dentro de tx).
func (r *BatchRepo) UpdateQuantity(batchID string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE batches SET quantity = $2, updated_at = now() WHERE id = $1`,
		batchID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	return nil
}

// ListByProduct lista los lotes de un producto, próximos a vencer primero.
func (r *BatchRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+batchColumns+` FROM batches WHERE product_id = $1 ORDER BY expiry_date NULLS LAST, created_at LIMIT $2 OFFSET $3`,
		productID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete elimina un lote (el caso de uso ya validó cantidad cero).
func (r *BatchRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
