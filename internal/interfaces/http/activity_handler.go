package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/usecase"
)

// ActivityHandler lectura de la bitácora de actividad (protegido).
type ActivityHandler struct {
	uc *usecase.ActivityUseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *usecase.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List lista la bitácora de la empresa, más reciente primero.
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	logs, err := h.uc.List(companyID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ActivityListResponse{
		Items: logs,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
