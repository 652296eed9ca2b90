package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/purchasing"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

// PurchaseHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchaseHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create crea una orden en borrador.
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.CreateOrder(c.Context(), companyID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// ChangeStatus mueve la orden por la máquina de estados.
func (h *PurchaseHandler) ChangeStatus(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ChangeOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ChangeStatus(c.Context(), companyID, userID, c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estado actualizado"})
}

// Receive godoc
// @Summary      Recibir mercadería contra una orden
// @Description  Acumula lo recibido por línea, incrementa stock de catálogo y recalcula el estado. Sobre-recibir cualquier línea revierte toda la recepción.
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReceiveOrderRequest  true  "lines: item_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Receive(c.Context(), companyID, userID, c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "recepción registrada"})
}

// GetByID devuelve una orden con sus líneas.
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	order, err := h.uc.GetOrder(companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// List lista órdenes con filtro opcional por estado (?status=).
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	orders, err := h.uc.ListOrders(companyID, c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *toOrderResponse(o))
	}
	return c.JSON(dto.OrderListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func toOrderResponse(o *entity.PurchaseOrder) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	resp := &dto.OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		SupplierID:  o.SupplierID,
		Status:      string(o.Status),
		Notes:       o.Notes,
		OrderedAt:   o.OrderedAt,
		ReceivedAt:  o.ReceivedAt,
		CreatedAt:   o.CreatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Description:      it.Description,
			OrderedQuantity:  it.OrderedQuantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitCost:         it.UnitCost,
		})
	}
	return resp
}
