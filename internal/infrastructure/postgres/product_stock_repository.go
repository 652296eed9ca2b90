package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

var _ repository.ProductStockRepository = (*ProductStockRepo)(nil)

// ProductStockRepo implementación del puerto ProductStockRepository sobre PostgreSQL.
type ProductStockRepo struct {
	q Querier
}

// NewProductStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductStockRepository(q Querier) *ProductStockRepo {
	return &ProductStockRepo{q: q}
}

// Get obtiene el stock de un producto en una bodega, o nil si no hay fila.
func (r *ProductStockRepo) Get(productID, locationID string) (*entity.ProductStock, error) {
	var s entity.ProductStock
	err := r.q.QueryRow(context.Background(),
		`SELECT product_id, location_id, quantity, updated_at FROM product_stocks WHERE product_id = $1 AND location_id = $2`,
		productID, locationID,
	).Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate bloquea la fila de stock (SELECT FOR UPDATE). Si no existe,
// devuelve una fila en cero sin persistir: producto nunca almacenado en esa
// bodega equivale a cero existencias.
func (r *ProductStockRepo) GetForUpdate(productID, locationID string) (*entity.ProductStock, error) {
	var s entity.ProductStock
	err := r.q.QueryRow(context.Background(),
		`SELECT product_id, location_id, quantity, updated_at FROM product_stocks WHERE product_id = $1 AND location_id = $2 FOR UPDATE`,
		productID, locationID,
	).Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ProductStock{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("lock product stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la fila de stock producto+bodega.
func (r *ProductStockRepo) Upsert(stock *entity.ProductStock) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO product_stocks (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, location_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		stock.ProductID, stock.LocationID, stock.Quantity, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product stock: %w", err)
	}
	return nil
}

// AddQuantity incrementa (o crea) la fila de stock producto+bodega sumando
// delta sobre el valor ya persistido. El UPDATE aditivo toma el lock de fila
// en la propia escritura, así que dos traslados concurrentes hacia la misma
// bodega no se pisan entre sí.
func (r *ProductStockRepo) AddQuantity(productID, locationID string, delta int64, now time.Time) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO product_stocks (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, location_id) DO UPDATE SET quantity = product_stocks.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		productID, locationID, delta, now,
	)
	if err != nil {
		return fmt.Errorf("add product stock quantity: %w", err)
	}
	return nil
}

// ListByProduct lista las existencias por bodega de un producto.
func (r *ProductStockRepo) ListByProduct(productID string) ([]*entity.ProductStock, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT product_id, location_id, quantity, updated_at FROM product_stocks WHERE product_id = $1 ORDER BY location_id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list product stocks: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProductStock
	for rows.Next() {
		var s entity.ProductStock
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product stock: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// TotalByLocation suma las existencias en una bodega (guard de borrado de bodegas).
func (r *ProductStockRepo) TotalByLocation(locationID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM product_stocks WHERE location_id = $1`,
		locationID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total by location: %w", err)
	}
	return total, nil
}
