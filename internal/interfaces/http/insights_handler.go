package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/insights"
)

// InsightsHandler maneja las consultas de estado derivado (protegido).
type InsightsHandler struct {
	uc *insights.UseCase
}

// NewInsightsHandler construye el handler.
func NewInsightsHandler(uc *insights.UseCase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

// ReorderSuggestions godoc
// @Summary      Sugerencias de reposición
// @Description  Productos en o bajo su punto de reposición, con cantidad sugerida y urgencia.
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReorderSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/insights/reorder [get]
func (h *InsightsHandler) ReorderSuggestions(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.ReorderSuggestions(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "suggestions": list})
}

// Forecast proyección de demanda por producto.
func (h *InsightsHandler) Forecast(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.Forecast(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "forecasts": list})
}

// LowStock productos en o bajo su umbral de stock bajo.
func (h *InsightsHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.LowStock(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "products": list})
}

// UpsertRule crea o actualiza la regla de reposición de un producto.
func (h *InsightsHandler) UpsertRule(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpsertReorderRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rule, err := h.uc.UpsertRule(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReorderRuleResponse{
		ID:              rule.ID,
		ProductID:       rule.ProductID,
		ReorderPoint:    rule.ReorderPoint,
		ReorderQuantity: rule.ReorderQuantity,
		SupplierID:      rule.SupplierID,
		Active:          rule.Active,
	})
}

// DeleteRule elimina la regla de reposición de un producto.
func (h *InsightsHandler) DeleteRule(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.DeleteRule(c.Context(), companyID, c.Params("productId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "regla eliminada"})
}
