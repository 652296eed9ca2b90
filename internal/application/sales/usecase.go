package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/ports"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	domstock "github.com/tu-usuario/bodega-pos/internal/domain/stock"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// UseCase implementa el checkout POS y las consultas de ventas.
type UseCase struct {
	txRunner    TxRunner
	productRepo ProductReader
	saleRepo    SaleReader
	audit       ports.AuditRecorder
	cache       ports.Cache
	log         *logger.Logger
}

// ProductReader lecturas de producto fuera de transacción.
type ProductReader interface {
	GetByID(id string) (*entity.Product, error)
}

// SaleReader lecturas de venta fuera de transacción.
type SaleReader interface {
	GetByID(id string) (*entity.Sale, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error)
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner TxRunner,
	productRepo ProductReader,
	saleRepo SaleReader,
	audit ports.AuditRecorder,
	cache ports.Cache,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		audit:       audit,
		cache:       cache,
		log:         log,
	}
}

// Checkout registra una venta POS completa en una sola transacción:
// por cada línea bloquea el producto, corre el guard de cantidad,
// descuenta el agregado y escribe un movimiento "out" referenciando la
// venta. Si CUALQUIER línea dejaría stock negativo, la venta entera se
// rechaza y ningún producto queda descontado.
func (uc *UseCase) Checkout(ctx context.Context, companyID, userID string, in dto.CheckoutRequest) (*entity.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "al menos una línea")
	}
	verr := &domain.ValidationError{Fields: map[string][]string{}}
	seen := make(map[string]bool, len(in.Lines))
	for i, line := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if line.ProductID == "" {
			verr.Add(field+".product_id", "requerido")
		}
		if line.Quantity <= 0 {
			verr.Add(field+".quantity", "debe ser positiva")
		}
		if seen[line.ProductID] {
			verr.Add(field+".product_id", "producto repetido en el carrito")
		}
		seen[line.ProductID] = true
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	// Resuelve catálogo y tenant antes de abrir la transacción.
	products := make(map[string]*entity.Product, len(in.Lines))
	for _, line := range in.Lines {
		p, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		products[line.ProductID] = p
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Number:     fmt.Sprintf("V-%s", now.Format("20060102-150405")),
		CustomerID: in.CustomerID,
		Status:     entity.SaleCompleted,
		Total:      decimal.Zero,
		CreatedBy:  userID,
		CreatedAt:  now,
	}
	for _, line := range in.Lines {
		price := products[line.ProductID].Price
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
		sale.Total = sale.Total.Add(price.Mul(decimal.NewFromInt(line.Quantity)))
	}

	err := uc.txRunner.RunSales(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, item := range sale.Items {
			locked, err := productRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			newQty, err := domstock.ApplyDelta("producto "+products[item.ProductID].SKU, locked.Quantity, -item.Quantity)
			if err != nil {
				return err
			}
			if err := productRepo.UpdateQuantity(item.ProductID, newQty); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:            uuid.New().String(),
				CompanyID:     companyID,
				ProductID:     item.ProductID,
				Type:          entity.MovementOut,
				Quantity:      -item.Quantity,
				Reference:     sale.ID,
				ReferenceType: entity.RefSale,
				CreatedBy:     userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}

	changes, _ := json.Marshal(map[string]any{"number": sale.Number, "total": sale.Total, "lines": len(sale.Items)})
	uc.audit.Record(entity.ActivityLog{
		CompanyID:  companyID,
		UserID:     userID,
		EntityType: "sale",
		EntityID:   sale.ID,
		Action:     "checkout",
		Changes:    changes,
	})
	uc.cache.InvalidatePrefix(ports.TenantPrefix(companyID))
	return sale, nil
}

// GetSale devuelve una venta de la empresa con sus líneas.
func (uc *UseCase) GetSale(companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSales lista las ventas de la empresa, más reciente primero.
func (uc *UseCase) ListSales(companyID string, page dto.PageRequest) ([]*entity.Sale, error) {
	return uc.saleRepo.ListByCompany(companyID, page.Limit, page.Offset)
}
