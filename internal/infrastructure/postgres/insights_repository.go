package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

var _ repository.InsightsRepository = (*InsightsRepo)(nil)

// InsightsRepo consultas read-only para los calculadores derivados.
// Agrega sobre el ledger y las ventas; jamás escribe.
type InsightsRepo struct {
	q Querier
}

// NewInsightsRepository construye el adaptador de consultas de insights.
func NewInsightsRepository(q Querier) *InsightsRepo {
	return &InsightsRepo{q: q}
}

// GetProductSales agrega las líneas de ventas completadas entre start y end,
// partiendo la ventana en mid para detectar tendencia entre mitades.
func (r *InsightsRepo) GetProductSales(ctx context.Context, companyID string, start, mid, end time.Time) ([]repository.ProductSalesResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.quantity,
			COALESCE(SUM(si.quantity), 0) AS total_units,
			COALESCE(SUM(si.quantity) FILTER (WHERE s.created_at < $3), 0) AS first_half,
			COALESCE(SUM(si.quantity) FILTER (WHERE s.created_at >= $3), 0) AS second_half
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.company_id = $1 AND s.status = $2
			AND s.created_at >= $4 AND s.created_at <= $5
		GROUP BY p.id, p.sku, p.name, p.quantity
		ORDER BY total_units DESC`,
		companyID, entity.SaleCompleted, mid, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate product sales: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductSalesResult
	for rows.Next() {
		var res repository.ProductSalesResult
		if err := rows.Scan(&res.ProductID, &res.SKU, &res.ProductName, &res.CurrentQuantity,
			&res.TotalUnits, &res.FirstHalfUnits, &res.SecondHalfUnits); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// GetLowStockProducts devuelve los productos con umbral definido cuya cantidad
// está en o bajo el umbral.
func (r *InsightsRepo) GetLowStockProducts(ctx context.Context, companyID string) ([]repository.LowStockResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sku, name, quantity, low_stock_threshold
		FROM products
		WHERE company_id = $1 AND low_stock_threshold IS NOT NULL AND quantity <= low_stock_threshold
		ORDER BY quantity`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockResult
	for rows.Next() {
		var res repository.LowStockResult
		if err := rows.Scan(&res.ProductID, &res.SKU, &res.ProductName, &res.Quantity, &res.LowStockThreshold); err != nil {
			return nil, fmt.Errorf("scan low stock product: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
