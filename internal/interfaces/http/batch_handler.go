package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/stock"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// BatchHandler maneja las peticiones HTTP de lotes (protegido).
type BatchHandler struct {
	uc *stock.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *stock.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create crea un lote; la cantidad inicial entra al ledger.
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	batch, err := h.uc.CreateBatch(c.Context(), companyID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

// Adjust ajusta la cantidad de un lote (y la del producto padre).
func (h *BatchHandler) Adjust(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.AdjustBatch(c.Context(), companyID, userID, c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote ajustado"})
}

// Delete elimina un lote con cantidad cero.
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.DeleteBatch(c.Context(), companyID, userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote eliminado"})
}

// ListByProduct lista los lotes de un producto.
func (h *BatchHandler) ListByProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	batches, err := h.uc.ListBatches(companyID, c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, *toBatchResponse(b))
	}
	return c.JSON(fiber.Map{"items": out})
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	if b == nil {
		return nil
	}
	return &dto.BatchResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		Quantity:        b.Quantity,
		CostPrice:       b.CostPrice,
		ExpiryDate:      b.ExpiryDate,
		ManufactureDate: b.ManufactureDate,
		PurchaseOrderID: b.PurchaseOrderID,
		CreatedAt:       b.CreatedAt,
	}
}
