package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/ports"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	domstock "github.com/tu-usuario/bodega-pos/internal/domain/stock"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// UseCase agrupa los primitivos transaccionales de mutación de stock.
//
// Forma común de todos: validar referencias y tenant fuera de la transacción
// (fail-fast), releer contadores con lock dentro de la transacción, correr el
// guard de cantidad, actualizar contadores, apendear al ledger y confirmar.
// Después del commit: bitácora best-effort e invalidación del cache del tenant.
type UseCase struct {
	txRunner     TxRunner
	productRepo  ProductReader
	locationRepo LocationReader
	batchRepo    BatchReader
	movementRepo MovementReader
	stockRepo    StockReader
	audit        ports.AuditRecorder
	cache        ports.Cache
	log          *logger.Logger
}

// ProductReader lecturas de producto fuera de transacción (validación previa).
type ProductReader interface {
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	ListByIDs(companyID string, ids []string) ([]*entity.Product, error)
}

// LocationReader lecturas de bodega fuera de transacción.
type LocationReader interface {
	GetByID(id string) (*entity.Location, error)
}

// BatchReader lecturas de lote fuera de transacción.
type BatchReader interface {
	GetByID(id string) (*entity.Batch, error)
	GetByProductAndNumber(productID, batchNumber string) (*entity.Batch, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.Batch, error)
}

// StockReader lecturas de existencias por bodega fuera de transacción.
type StockReader interface {
	ListByProduct(productID string) ([]*entity.ProductStock, error)
}

// MovementReader lecturas del ledger (solo consulta; las escrituras van
// siempre dentro de la transacción del primitivo).
type MovementReader interface {
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockMovement, error)
}

// NewUseCase construye el caso de uso del motor de stock.
func NewUseCase(
	txRunner TxRunner,
	productRepo ProductReader,
	locationRepo LocationReader,
	batchRepo BatchReader,
	movementRepo MovementReader,
	stockRepo StockReader,
	audit ports.AuditRecorder,
	cache ports.Cache,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
		audit:        audit,
		cache:        cache,
		log:          log,
	}
}

// requireProduct resuelve el producto y verifica que pertenezca a la empresa.
// Referencia cruzada de otro tenant se reporta igual que inexistente.
func (uc *UseCase) requireProduct(companyID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// requireLocation resuelve la bodega y verifica el tenant.
func (uc *UseCase) requireLocation(companyID, locationID string) (*entity.Location, error) {
	loc, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

// afterCommit efectos posteriores al commit: bitácora best-effort e
// invalidación gruesa del cache del tenant. Nunca devuelve error.
func (uc *UseCase) afterCommit(companyID string, entry entity.ActivityLog) {
	entry.CompanyID = companyID
	uc.audit.Record(entry)
	uc.cache.InvalidatePrefix(ports.TenantPrefix(companyID))
}

// AdjustProduct aplica un delta firmado sobre el agregado del producto.
// Rechaza resultados negativos; en fallo no se escribe nada (ni movimiento).
func (uc *UseCase) AdjustProduct(ctx context.Context, companyID, userID string, in dto.AdjustProductRequest) error {
	if in.ProductID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	if in.Delta == 0 {
		return domain.NewValidationError("delta", "no puede ser cero")
	}
	if _, err := uc.requireProduct(companyID, in.ProductID); err != nil {
		return err
	}

	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.ProductStockRepository,
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
	) error {
		// Relectura con lock: el guard debe ver la cantidad bajo esta transacción.
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newQty, err := domstock.ApplyDelta("producto "+product.SKU, product.Quantity, in.Delta)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(product.ID, newQty); err != nil {
			return err
		}
		return movRepo.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			ProductID: product.ID,
			Type:      entity.MovementAdjust,
			Quantity:  in.Delta,
			Note:      in.Note,
			CreatedBy: userID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{"delta": in.Delta})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "product",
		EntityID:   in.ProductID,
		Action:     "adjust",
		Changes:    changes,
		Note:       in.Note,
	})
	return nil
}

// BulkAdjust aplica N deltas todo-o-nada: valida la pertenencia de todos los
// productos y todos los deltas contra cantidades bloqueadas ANTES de escribir;
// una sola línea inválida aborta el lote completo sin escrituras parciales.
func (uc *UseCase) BulkAdjust(ctx context.Context, companyID, userID string, in dto.BulkAdjustRequest) error {
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "requerido")
	}
	ids := make([]string, 0, len(in.Lines))
	seen := make(map[string]bool, len(in.Lines))
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "requerido")
		}
		if l.Delta == 0 {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].delta", i), "no puede ser cero")
		}
		if seen[l.ProductID] {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "producto repetido en el lote")
		}
		seen[l.ProductID] = true
		ids = append(ids, l.ProductID)
	}

	// Chequeo de pertenencia todo-o-nada antes de mutar cualquiera.
	owned, err := uc.productRepo.ListByIDs(companyID, ids)
	if err != nil {
		return err
	}
	if len(owned) != len(ids) {
		return domain.ErrNotFound
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.ProductStockRepository,
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
	) error {
		// Primera pasada: bloquear y validar cada delta. Nada se escribe aún.
		// Los locks se toman en orden canónico (ids ordenados) para que dos
		// lotes concurrentes con líneas cruzadas no se bloqueen mutuamente.
		deltas := make(map[string]int64, len(in.Lines))
		for _, l := range in.Lines {
			deltas[l.ProductID] = l.Delta
		}
		locked := append([]string(nil), ids...)
		sort.Strings(locked)
		newQtys := make(map[string]int64, len(in.Lines))
		for _, id := range locked {
			product, err := productRepo.GetForUpdate(id)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newQty, err := domstock.ApplyDelta("producto "+product.SKU, product.Quantity, deltas[id])
			if err != nil {
				return err
			}
			newQtys[id] = newQty
		}
		// Segunda pasada: aplicar contadores y ledger.
		for _, l := range in.Lines {
			if err := productRepo.UpdateQuantity(l.ProductID, newQtys[l.ProductID]); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ID:        uuid.New().String(),
				CompanyID: companyID,
				ProductID: l.ProductID,
				Type:      entity.MovementAdjust,
				Quantity:  l.Delta,
				Note:      in.Note,
				CreatedBy: userID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{"lines": len(in.Lines)})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "product",
		Action:     "bulk_adjust",
		Changes:    changes,
		Note:       in.Note,
	})
	return nil
}

// BulkDelete elimina N productos validando la pertenencia de TODOS los ids
// antes de borrar cualquiera. Las restricciones referenciales (ventas,
// movimientos) se guardan aguas arriba en la DB.
func (uc *UseCase) BulkDelete(ctx context.Context, companyID, userID string, in dto.BulkDeleteRequest) error {
	if len(in.ProductIDs) == 0 {
		return domain.NewValidationError("product_ids", "requerido")
	}
	owned, err := uc.productRepo.ListByIDs(companyID, in.ProductIDs)
	if err != nil {
		return err
	}
	if len(owned) != len(in.ProductIDs) {
		return domain.ErrNotFound
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductStockRepository,
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
	) error {
		for _, id := range in.ProductIDs {
			if err := productRepo.Delete(id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{"count": len(in.ProductIDs)})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "product",
		Action:     "bulk_delete",
		Changes:    changes,
	})
	return nil
}

// BulkImport crea N productos todo-o-nada. Filas con cantidad inicial > 0
// generan un movimiento "in" con referencia de importación.
func (uc *UseCase) BulkImport(ctx context.Context, companyID, userID string, in dto.ImportProductsRequest) error {
	if len(in.Rows) == 0 {
		return domain.NewValidationError("rows", "requerido")
	}
	vErr := &domain.ValidationError{}
	seen := make(map[string]bool, len(in.Rows))
	for i, row := range in.Rows {
		if row.SKU == "" {
			vErr.Add(fmt.Sprintf("rows[%d].sku", i), "requerido")
			continue
		}
		if seen[row.SKU] {
			vErr.Add(fmt.Sprintf("rows[%d].sku", i), "SKU repetido en el archivo")
		}
		seen[row.SKU] = true
		if row.Name == "" {
			vErr.Add(fmt.Sprintf("rows[%d].name", i), "requerido")
		}
		if row.InitialQuantity < 0 {
			vErr.Add(fmt.Sprintf("rows[%d].initial_quantity", i), "no puede ser negativa")
		}
		if row.Price.IsNegative() {
			vErr.Add(fmt.Sprintf("rows[%d].price", i), "no puede ser negativo")
		}
	}
	if len(vErr.Fields) > 0 {
		return vErr
	}
	// SKUs ya existentes en la empresa abortan la importación completa.
	for i, row := range in.Rows {
		existing, err := uc.productRepo.GetByCompanyAndSKU(companyID, row.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewValidationError(fmt.Sprintf("rows[%d].sku", i), "SKU ya existe")
		}
	}

	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.ProductStockRepository,
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
	) error {
		for _, row := range in.Rows {
			product := &entity.Product{
				ID:                uuid.New().String(),
				CompanyID:         companyID,
				SKU:               row.SKU,
				Barcode:           row.Barcode,
				Name:              row.Name,
				Price:             row.Price,
				Quantity:          row.InitialQuantity,
				LowStockThreshold: row.LowStockThreshold,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := productRepo.Create(product); err != nil {
				return err
			}
			if row.InitialQuantity > 0 {
				if err := movRepo.Create(&entity.StockMovement{
					ID:            uuid.New().String(),
					CompanyID:     companyID,
					ProductID:     product.ID,
					Type:          entity.MovementIn,
					Quantity:      row.InitialQuantity,
					ReferenceType: entity.RefImport,
					Reference:     "import",
					CreatedBy:     userID,
					CreatedAt:     now,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{"rows": len(in.Rows)})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "product",
		Action:     "import",
		Changes:    changes,
	})
	return nil
}
