package stock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	domstock "github.com/tu-usuario/bodega-pos/internal/domain/stock"
)

// Transfer mueve unidades de un producto entre dos bodegas de la empresa.
//
// Es interno entre bodegas: NO toca Product.Quantity (el total de la empresa
// no cambia). Escribe exactamente dos filas en el ledger — negativa en origen
// referenciando la bodega destino y positiva en destino referenciando la de
// origen — para que el traslado sea trazable en ambas direcciones. Las cuatro
// escrituras (dos contadores, dos movimientos) confirman o revierten juntas.
func (uc *UseCase) Transfer(ctx context.Context, companyID, userID string, in dto.TransferRequest) error {
	if in.ProductID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	if in.Quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser positiva")
	}
	if in.FromLocationID == "" || in.ToLocationID == "" {
		return domain.NewValidationError("from_location_id", "origen y destino requeridos")
	}
	if in.FromLocationID == in.ToLocationID {
		return domain.NewValidationError("to_location_id", "origen y destino no pueden ser la misma bodega")
	}

	if _, err := uc.requireProduct(companyID, in.ProductID); err != nil {
		return err
	}
	if _, err := uc.requireLocation(companyID, in.FromLocationID); err != nil {
		return err
	}
	if _, err := uc.requireLocation(companyID, in.ToLocationID); err != nil {
		return err
	}

	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.ProductStockRepository,
		_ repository.ProductRepository,
		_ repository.BatchRepository,
	) error {
		// Bloquea la fila de origen; el chequeo estricto impide quedar
		// negativo incluso transitoriamente.
		origin, err := stockRepo.GetForUpdate(in.ProductID, in.FromLocationID)
		if err != nil {
			return err
		}
		newOrigin, err := domstock.ApplyDelta("stock en bodega origen", origin.Quantity, -in.Quantity)
		if err != nil {
			return err
		}
		origin.Quantity = newOrigin
		origin.UpdatedAt = now
		if err := stockRepo.Upsert(origin); err != nil {
			return err
		}
		// El destino se escribe de forma aditiva: dos traslados concurrentes
		// hacia la misma bodega difieren en sus locks de origen, así que un
		// leer-sumar-escribir aquí perdería un incremento.
		if err := stockRepo.AddQuantity(in.ProductID, in.ToLocationID, in.Quantity, now); err != nil {
			return err
		}

		fromID, toID := in.FromLocationID, in.ToLocationID
		if err := movRepo.Create(&entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ProductID:     in.ProductID,
			LocationID:    &fromID,
			Type:          entity.MovementTransfer,
			Quantity:      -in.Quantity,
			Reference:     toID,
			ReferenceType: entity.RefLocation,
			Note:          in.Note,
			CreatedBy:     userID,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		return movRepo.Create(&entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			ProductID:     in.ProductID,
			LocationID:    &toID,
			Type:          entity.MovementTransfer,
			Quantity:      in.Quantity,
			Reference:     fromID,
			ReferenceType: entity.RefLocation,
			Note:          in.Note,
			CreatedBy:     userID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return err
	}

	changes, _ := json.Marshal(map[string]any{
		"from": in.FromLocationID, "to": in.ToLocationID, "quantity": in.Quantity,
	})
	uc.afterCommit(companyID, entity.ActivityLog{
		UserID:     userID,
		EntityType: "product",
		EntityID:   in.ProductID,
		Action:     "transfer",
		Changes:    changes,
		Note:       in.Note,
	})
	return nil
}
