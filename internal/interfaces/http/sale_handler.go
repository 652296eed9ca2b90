package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/sales"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// SaleHandler maneja las peticiones HTTP del POS (protegido).
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Checkout godoc
// @Summary      Registrar venta POS
// @Description  Descuenta stock línea por línea en una sola transacción. Una línea sin stock suficiente rechaza la venta entera.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "lines: product_id, quantity, unit_price opcional"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.uc.Checkout(c.Context(), companyID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByID devuelve una venta con sus líneas.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	sale, err := h.uc.GetSale(companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// List lista las ventas de la empresa.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.ListSales(companyID, page)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s))
	}
	return c.JSON(fiber.Map{"items": out})
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	resp := &dto.SaleResponse{
		ID:         s.ID,
		Number:     s.Number,
		CustomerID: s.CustomerID,
		Status:     s.Status,
		Total:      s.Total,
		CreatedAt:  s.CreatedAt,
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return resp
}
