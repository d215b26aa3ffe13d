package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/crm"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
)

// ActivityHandler actividades y follow-ups.
type ActivityHandler struct {
	uc *crm.ActivityUseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *crm.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// Create godoc
// @Summary      Programar actividad
// @Tags         activities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateActivityRequest  true  "tipo, asunto y fecha programada"
// @Success      201   {object}  dto.ActivityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/activities [post]
func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateActivityRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar actividades
// @Tags         activities
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "PENDING | COMPLETED | CANCELLED"
// @Param        overdue     query  bool    false  "solo vencidas"
// @Param        start_date  query  string  false  "desde (scheduled_at)"
// @Param        end_date    query  string  false  "hasta (scheduled_at)"
// @Success      200  {object}  dto.ListResponse[dto.ActivityResponse]
// @Router       /api/activities [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	var q dto.ActivityListQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/activities/:id
func (h *ActivityHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete PATCH /api/activities/:id/complete
func (h *ActivityHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel PATCH /api/activities/:id/cancel
func (h *ActivityHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
