package repository

import (
	"time"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/purchase"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create persiste la orden y sus líneas.
	Create(order *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus líneas, o nil si no existe.
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas;
	// serializa recepciones concurrentes sobre la misma orden.
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	UpdateStatus(orderID string, status purchase.Status, orderedAt, receivedAt *time.Time) error
	UpdateItemReceived(itemID string, receivedQuantity int64) error
	ListByCompany(companyID string, status purchase.Status, limit, offset int) ([]*entity.PurchaseOrder, error)
}
