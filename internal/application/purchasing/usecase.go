package purchasing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/ports"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/purchase"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// UseCase implementa el ciclo de vida de órdenes de compra:
// creación en borrador, máquina de estados y recepción de mercadería.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    OrderReader
	supplierRepo SupplierReader
	audit        ports.AuditRecorder
	cache        ports.Cache
	log          *logger.Logger
}

// OrderReader lecturas de orden fuera de transacción.
type OrderReader interface {
	GetByID(id string) (*entity.PurchaseOrder, error)
	ListByCompany(companyID string, status purchase.Status, limit, offset int) ([]*entity.PurchaseOrder, error)
}

// SupplierReader lecturas de proveedor fuera de transacción.
type SupplierReader interface {
	GetByID(id string) (*entity.Supplier, error)
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner TxRunner,
	orderRepo OrderReader,
	supplierRepo SupplierReader,
	audit ports.AuditRecorder,
	cache ports.Cache,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		audit:        audit,
		cache:        cache,
		log:          log,
	}
}

func (uc *UseCase) requireOrder(companyID, orderID string) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (uc *UseCase) afterCommit(companyID string, entry entity.ActivityLog) {
	entry.CompanyID = companyID
	uc.audit.Record(entry)
	uc.cache.InvalidatePrefix(ports.TenantPrefix(companyID))
}

// CreateOrder crea una orden en borrador con sus líneas.
// Las líneas sin producto (ProductID nil) son items libres que no
// mueven stock al recibirse.
func (uc *UseCase) CreateOrder(ctx context.Context, companyID, userID string, in dto.CreateOrderRequest) (*entity.PurchaseOrder, error) {
	if in.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "al menos una línea")
	}
	verr := &domain.ValidationError{Fields: map[string][]string{}}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "debe ser positiva")
		}
		if item.ProductID == nil && item.Description == "" {
			verr.Add(fmt.Sprintf("items[%d].description", i), "requerida para líneas libres")
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		OrderNumber: fmt.Sprintf("OC-%s", now.Format("20060102-150405")),
		SupplierID:  in.SupplierID,
		Status:      purchase.StatusDraft,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Description:     item.Description,
			OrderedQuantity: item.Quantity,
			UnitCost:        item.UnitCost,
		})
	}

	err = uc.txRunner.RunPurchasing(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}

	changes, _ := json.Marshal(map[string]any{"order_number": order.OrderNumber, "supplier_id": in.SupplierID})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "purchase_order",
		EntityID:   order.ID,
		Action:     "create",
		Changes:    changes,
	})
	return order, nil
}

// ChangeStatus mueve la orden por la máquina de estados. Solo acepta
// transiciones de la tabla; al entrar a "ordered" estampa OrderedAt.
// Cancelar una orden con recepciones parciales NO revierte el stock ya
// recibido: esas unidades entraron al ledger y ahí se quedan.
func (uc *UseCase) ChangeStatus(ctx context.Context, companyID, userID, orderID string, in dto.ChangeOrderStatusRequest) error {
	target := purchase.Status(in.Status)
	if !target.IsValid() {
		return domain.NewValidationError("status", "estado desconocido: "+in.Status)
	}
	if _, err := uc.requireOrder(companyID, orderID); err != nil {
		return err
	}

	var fromStatus purchase.Status
	err := uc.txRunner.RunPurchasing(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		locked, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		fromStatus = locked.Status
		if err := purchase.Transition(locked.Status, target); err != nil {
			return err
		}
		orderedAt := locked.OrderedAt
		if target == purchase.StatusOrdered && orderedAt == nil {
			now := time.Now()
			orderedAt = &now
		}
		return orderRepo.UpdateStatus(orderID, target, orderedAt, locked.ReceivedAt)
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{"from": fromStatus, "to": target})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "purchase_order",
		EntityID:   orderID,
		Action:     "change_status",
		Changes:    changes,
	})
	return nil
}

// Receive procesa una recepción de mercadería contra la orden: valida que
// ninguna línea exceda lo ordenado, acumula lo recibido, incrementa el
// stock de las líneas de catálogo con su movimiento "receive" y recalcula
// el estado de la cabecera. Una sola línea sobre-recibida revierte toda
// la recepción.
func (uc *UseCase) Receive(ctx context.Context, companyID, userID, orderID string, in dto.ReceiveOrderRequest) error {
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "al menos una línea")
	}
	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "debe ser positiva")
		}
	}
	if _, err := uc.requireOrder(companyID, orderID); err != nil {
		return err
	}

	now := time.Now()
	err := uc.txRunner.RunPurchasing(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		locked, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if locked.Status != purchase.StatusOrdered && locked.Status != purchase.StatusPartial {
			return &purchase.InvalidTransitionError{From: locked.Status, To: purchase.StatusPartial}
		}

		items := make(map[string]*entity.PurchaseOrderItem, len(locked.Items))
		for i := range locked.Items {
			items[locked.Items[i].ID] = &locked.Items[i]
		}

		for _, line := range in.Lines {
			item, ok := items[line.ItemID]
			if !ok {
				return fmt.Errorf("línea %s no pertenece a la orden: %w", line.ItemID, domain.ErrNotFound)
			}
			if item.ReceivedQuantity+line.Quantity > item.OrderedQuantity {
				return &domain.OverReceiveError{
					ItemID:   item.ID,
					Ordered:  item.OrderedQuantity,
					Received: item.ReceivedQuantity,
					Incoming: line.Quantity,
				}
			}
			item.ReceivedQuantity += line.Quantity
			if err := orderRepo.UpdateItemReceived(item.ID, item.ReceivedQuantity); err != nil {
				return err
			}
			if item.ProductID == nil {
				continue
			}
			lockedProduct, err := productRepo.GetForUpdate(*item.ProductID)
			if err != nil {
				return err
			}
			if err := productRepo.UpdateQuantity(*item.ProductID, lockedProduct.Quantity+line.Quantity); err != nil {
				return err
			}
			if err := productRepo.UpdateCost(*item.ProductID, item.UnitCost); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:            uuid.New().String(),
				CompanyID:     companyID,
				ProductID:     *item.ProductID,
				Type:          entity.MovementReceive,
				Quantity:      line.Quantity,
				Reference:     locked.OrderNumber,
				ReferenceType: entity.RefPurchaseOrder,
				CreatedBy:     userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}

		progress := purchase.ReceiptProgress{AllReceived: true}
		for _, item := range locked.Items {
			if item.ReceivedQuantity > 0 {
				progress.AnyReceived = true
			}
			if !item.FullyReceived() {
				progress.AllReceived = false
			}
		}
		next := purchase.StatusAfterReceipt(progress)
		if next == locked.Status {
			// partial → partial: recepción incremental sin cambio de estado.
			return nil
		}
		if err := purchase.Transition(locked.Status, next); err != nil {
			return err
		}
		receivedAt := locked.ReceivedAt
		if next == purchase.StatusReceived && receivedAt == nil {
			receivedAt = &now
		}
		return orderRepo.UpdateStatus(orderID, next, locked.OrderedAt, receivedAt)
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{"lines": len(in.Lines)})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "purchase_order",
		EntityID:   orderID,
		Action:     "receive",
		Changes:    changes,
	})
	return nil
}

// GetOrder devuelve una orden de la empresa con sus líneas.
func (uc *UseCase) GetOrder(companyID, orderID string) (*entity.PurchaseOrder, error) {
	return uc.requireOrder(companyID, orderID)
}

// ListOrders lista órdenes de la empresa, con filtro opcional por estado.
func (uc *UseCase) ListOrders(companyID string, status string, page dto.PageRequest) ([]*entity.PurchaseOrder, error) {
	st := purchase.Status(status)
	if status != "" && !st.IsValid() {
		return nil, domain.NewValidationError("status", "estado desconocido: "+status)
	}
	return uc.orderRepo.ListByCompany(companyID, st, page.Limit, page.Offset)
}
