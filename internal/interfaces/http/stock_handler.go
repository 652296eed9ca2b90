package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/stock"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del motor de stock (protegido).
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajustar stock agregado de un producto
// @Description  Aplica un delta firmado. Un resultado negativo rechaza la operación sin tocar nada.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustProductRequest  true  "product_id, delta, note"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.AdjustProduct(c.Context(), companyID, userID, in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_location_id, to_location_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Transfer(c.Context(), companyID, userID, in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado aplicado"})
}

// BulkAdjust aplica ajustes masivos todo-o-nada.
func (h *StockHandler) BulkAdjust(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.BulkAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.BulkAdjust(c.Context(), companyID, userID, in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste masivo aplicado", "lines": len(in.Lines)})
}

// BulkDelete elimina productos en lote (todo-o-nada).
func (h *StockHandler) BulkDelete(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.BulkDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.BulkDelete(c.Context(), companyID, userID, in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "productos eliminados", "count": len(in.ProductIDs)})
}

// Import crea productos en lote con stock inicial (validación por fila).
func (h *StockHandler) Import(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ImportProductsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.BulkImport(c.Context(), companyID, userID, in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "productos importados", "count": len(in.Rows)})
}

// ProductMovements lista el historial del ledger de un producto.
func (h *StockHandler) ProductMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return badBody(c)
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return badBody(c)
	}
	movements, err := h.uc.ProductMovements(companyID, c.Params("id"), from, to, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: toMovementResponses(movements),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// CompanyMovements lista el ledger completo de la empresa.
func (h *StockHandler) CompanyMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	movements, err := h.uc.CompanyMovements(companyID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: toMovementResponses(movements),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// ProductStocks lista las existencias por bodega de un producto.
func (h *StockHandler) ProductStocks(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	stocks, err := h.uc.ProductStocks(companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, fiber.Map{
			"location_id": s.LocationID,
			"quantity":    s.Quantity,
			"updated_at":  s.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"items": out})
}

func toMovementResponses(movements []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			LocationID:    m.LocationID,
			BatchID:       m.BatchID,
			Type:          string(m.Type),
			Quantity:      m.Quantity,
			Reference:     m.Reference,
			ReferenceType: string(m.ReferenceType),
			Note:          m.Note,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out
}

// parseTimeQuery lee un query param RFC3339 opcional.
func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
