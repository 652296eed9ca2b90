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

var _ repository.ReorderRuleRepository = (*ReorderRuleRepo)(nil)

const ruleColumns = `id, company_id, product_id, reorder_point, reorder_quantity, supplier_id, active, created_at, updated_at`

// ReorderRuleRepo implementación del puerto ReorderRuleRepository sobre PostgreSQL.
type ReorderRuleRepo struct {
	q Querier
}

// NewReorderRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReorderRuleRepository(q Querier) *ReorderRuleRepo {
	return &ReorderRuleRepo{q: q}
}

// Upsert inserta o actualiza la regla del producto (una regla por producto).
func (r *ReorderRuleRepo) Upsert(rule *entity.ReorderRule) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO reorder_rules (id, company_id, product_id, reorder_point, reorder_quantity, supplier_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id, product_id) DO UPDATE SET
			reorder_point = EXCLUDED.reorder_point,
			reorder_quantity = EXCLUDED.reorder_quantity,
			supplier_id = EXCLUDED.supplier_id,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`,
		rule.ID, rule.CompanyID, rule.ProductID, rule.ReorderPoint, rule.ReorderQuantity,
		rule.SupplierID, rule.Active, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert reorder rule: %w", err)
	}
	return nil
}

// GetByProduct obtiene la regla de un producto, o nil si no existe.
func (r *ReorderRuleRepo) GetByProduct(companyID, productID string) (*entity.ReorderRule, error) {
	var rule entity.ReorderRule
	err := r.q.QueryRow(context.Background(),
		`SELECT `+ruleColumns+` FROM reorder_rules WHERE company_id = $1 AND product_id = $2`,
		companyID, productID,
	).Scan(&rule.ID, &rule.CompanyID, &rule.ProductID, &rule.ReorderPoint, &rule.ReorderQuantity,
		&rule.SupplierID, &rule.Active, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reorder rule: %w", err)
	}
	return &rule, nil
}

// ListActiveByCompany lista las reglas activas de la empresa.
func (r *ReorderRuleRepo) ListActiveByCompany(companyID string) ([]*entity.ReorderRule, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+ruleColumns+` FROM reorder_rules WHERE company_id = $1 AND active`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reorder rules: %w", err)
	}
	defer rows.Close()

	var out []*entity.ReorderRule
	for rows.Next() {
		var rule entity.ReorderRule
		if err := rows.Scan(&rule.ID, &rule.CompanyID, &rule.ProductID, &rule.ReorderPoint,
			&rule.ReorderQuantity, &rule.SupplierID, &rule.Active, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reorder rule: %w", err)
		}
		out = append(out, &rule)
	}
	return out, rows.Err()
}

// Delete elimina una regla.
func (r *ReorderRuleRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM reorder_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reorder rule: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
