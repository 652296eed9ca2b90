package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/purchase"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const orderColumns = `id, company_id, order_number, supplier_id, status, notes, ordered_at, received_at, created_at, updated_at`

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden y sus líneas.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, company_id, order_number, supplier_id, status, notes, ordered_at, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.CompanyID, order.OrderNumber, order.SupplierID, order.Status,
		order.Notes, order.OrderedAt, order.ReceivedAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for i := range order.Items {
		item := &order.Items[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (id, order_id, product_id, description, ordered_quantity, received_quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.OrderID, item.ProductID, item.Description,
			item.OrderedQuantity, item.ReceivedQuantity, item.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus líneas, o nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
// Serializa recepciones y cambios de estado concurrentes sobre la misma orden.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	o, err := r.get(id, true)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (r *PurchaseOrderRepo) get(id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	ctx := context.Background()
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var o entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CompanyID, &o.OrderNumber, &o.SupplierID, &o.Status, &o.Notes,
		&o.OrderedAt, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PurchaseOrderRepo) listItems(ctx context.Context, orderID string) ([]entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, description, ordered_quantity, received_quantity, unit_cost
		FROM purchase_order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()

	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Description,
			&it.OrderedQuantity, &it.ReceivedQuantity, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus fija estado y timestamps de la cabecera.
func (r *PurchaseOrderRepo) UpdateStatus(orderID string, status purchase.Status, orderedAt, receivedAt *time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET status = $2, ordered_at = $3, received_at = $4, updated_at = now() WHERE id = $1`,
		orderID, status, orderedAt, receivedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// UpdateItemReceived fija lo acumulado recibido de una línea.
func (r *PurchaseOrderRepo) UpdateItemReceived(itemID string, receivedQuantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_order_items SET received_quantity = $2 WHERE id = $1`,
		itemID, receivedQuantity,
	)
	if err != nil {
		return fmt.Errorf("update purchase order item: %w", err)
	}
	return nil
}

// ListByCompany lista órdenes de la empresa con filtro opcional por estado.
// Las líneas no se cargan en el listado.
func (r *PurchaseOrderRepo) ListByCompany(companyID string, status purchase.Status, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.OrderNumber, &o.SupplierID, &o.Status,
			&o.Notes, &o.OrderedAt, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
