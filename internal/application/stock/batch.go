package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	domstock "github.com/tu-usuario/bodega-pos/internal/domain/stock"
)

// CreateBatch crea un lote de un producto. Si trae cantidad inicial positiva
// se registra la entrada en el ledger con referencia al lote; el total del
// producto sube en la misma transacción.
func (uc *UseCase) CreateBatch(ctx context.Context, companyID, userID string, in dto.CreateBatchRequest) (*entity.Batch, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if in.BatchNumber == "" {
		return nil, domain.NewValidationError("batch_number", "requerido")
	}
	if in.Quantity < 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}

	product, err := uc.requireProduct(companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	// El número de lote es único por producto.
	if existing, err := uc.batchRepo.GetByProductAndNumber(in.ProductID, in.BatchNumber); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("lote %s del producto %s: %w", in.BatchNumber, product.SKU, domain.ErrDuplicate)
	}

	now := time.Now()
	batch := &entity.Batch{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		ProductID:       in.ProductID,
		BatchNumber:     in.BatchNumber,
		Quantity:        in.Quantity,
		CostPrice:       in.CostPrice,
		ExpiryDate:      in.ExpiryDate,
		ManufactureDate: in.ManufactureDate,
		PurchaseOrderID: in.PurchaseOrderID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.ProductStockRepository,
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		if in.Quantity == 0 {
			return nil
		}
		locked, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(in.ProductID, locked.Quantity+in.Quantity); err != nil {
			return err
		}
		batchID := batch.ID
		return movRepo.Create(&entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ProductID:     in.ProductID,
			BatchID:       &batchID,
			Type:          entity.MovementIn,
			Quantity:      in.Quantity,
			Reference:     batch.ID,
			ReferenceType: entity.RefBatch,
			Note:          "ingreso lote " + in.BatchNumber,
			CreatedBy:     userID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	changes, _ := json.Marshal(map[string]any{"batch_number": in.BatchNumber, "quantity": in.Quantity})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "batch",
		EntityID:   batch.ID,
		Action:     "create",
		Changes:    changes,
	})
	return batch, nil
}

// AdjustBatch ajusta la cantidad de un lote. El mismo delta se aplica al
// total del producto padre dentro de la transacción; el guard corre sobre
// ambas cantidades y cualquiera que quede negativa revierte todo.
func (uc *UseCase) AdjustBatch(ctx context.Context, companyID, userID, batchID string, in dto.AdjustBatchRequest) error {
	if in.Delta == 0 {
		return domain.NewValidationError("delta", "no puede ser cero")
	}
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return err
	}
	if batch == nil || batch.CompanyID != companyID {
		return domain.ErrNotFound
	}
	product, err := uc.requireProduct(companyID, batch.ProductID)
	if err != nil {
		return err
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.ProductStockRepository,
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
	) error {
		locked, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		newBatchQty, err := domstock.ApplyDelta("lote "+locked.BatchNumber, locked.Quantity, in.Delta)
		if err != nil {
			return err
		}
		lockedProduct, err := productRepo.GetForUpdate(batch.ProductID)
		if err != nil {
			return err
		}
		newProductQty, err := domstock.ApplyDelta("producto "+product.SKU, lockedProduct.Quantity, in.Delta)
		if err != nil {
			return err
		}
		if err := batchRepo.UpdateQuantity(batchID, newBatchQty); err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(batch.ProductID, newProductQty); err != nil {
			return err
		}
		bid := batchID
		return movRepo.Create(&entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ProductID:     batch.ProductID,
			BatchID:       &bid,
			Type:          entity.MovementAdjust,
			Quantity:      in.Delta,
			Reference:     batchID,
			ReferenceType: entity.RefBatch,
			Note:          in.Note,
			CreatedBy:     userID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{"delta": in.Delta})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "batch",
		EntityID:   batchID,
		Action:     "adjust",
		Changes:    changes,
		Note:       in.Note,
	})
	return nil
}

// DeleteBatch elimina un lote. Solo se permite con cantidad cero: un lote
// con existencias se ajusta primero a cero (dejando rastro en el ledger)
// y recién entonces puede borrarse.
func (uc *UseCase) DeleteBatch(ctx context.Context, companyID, userID, batchID string) error {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return err
	}
	if batch == nil || batch.CompanyID != companyID {
		return domain.ErrNotFound
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductStockRepository,
		_ repository.ProductRepository,
		batchRepo repository.BatchRepository,
	) error {
		locked, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if locked.Quantity != 0 {
			return fmt.Errorf("el lote %s aún tiene %d unidades: %w", locked.BatchNumber, locked.Quantity, domain.ErrConflict)
		}
		return batchRepo.Delete(batchID)
	})
	if err != nil {
		return err
	}

	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "batch",
		EntityID:   batchID,
		Action:     "delete",
	})
	return nil
}

// ListBatches lista los lotes de un producto (validando tenant).
func (uc *UseCase) ListBatches(companyID, productID string, page dto.PageRequest) ([]*entity.Batch, error) {
	if _, err := uc.requireProduct(companyID, productID); err != nil {
		return nil, err
	}
	return uc.batchRepo.ListByProduct(productID, page.Limit, page.Offset)
}
