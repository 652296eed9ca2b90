package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y líneas (dentro de la tx del checkout).
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, company_id, number, customer_id, status, total, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sale.ID, sale.CompanyID, sale.Number, sale.CustomerID, sale.Status,
		sale.Total, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range sale.Items {
		item := &sale.Items[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	var s entity.Sale
	err := r.q.QueryRow(ctx,
		`SELECT id, company_id, number, customer_id, status, total, created_by, created_at FROM sales WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.CompanyID, &s.Number, &s.CustomerID, &s.Status, &s.Total, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, sale_id, product_id, quantity, unit_price FROM sale_items WHERE sale_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByCompany lista las ventas de la empresa, más reciente primero (sin líneas).
func (r *SaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, company_id, number, customer_id, status, total, created_by, created_at
		 FROM sales WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Number, &s.CustomerID, &s.Status,
			&s.Total, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
