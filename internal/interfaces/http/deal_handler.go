package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/sales"
)

// DealHandler pipeline de oportunidades.
type DealHandler struct {
	uc *sales.DealUseCase
}

// NewDealHandler construye el handler.
func NewDealHandler(uc *sales.DealUseCase) *DealHandler {
	return &DealHandler{uc: uc}
}

// Create godoc
// @Summary      Crear deal
// @Description  La probabilidad se deriva de la etapa salvo que se envíe explícitamente.
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDealRequest  true  "datos del deal"
// @Success      201   {object}  dto.DealResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deals [post]
func (h *DealHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDealRequest
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
// @Summary      Listar deals del scope
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        stage        query  string  false  "etapa"
// @Param        owner_id     query  string  false  "owner (ignorado para EMPLOYEE)"
// @Param        customer_id  query  string  false  "cliente"
// @Param        search       query  string  false  "título"
// @Success      200  {object}  dto.ListResponse[dto.DealResponse]
// @Router       /api/deals [get]
func (h *DealHandler) List(c *fiber.Ctx) error {
	var q dto.DealListQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Totales del pipeline por etapa
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        owner_id  query  string  false  "owner (ignorado para EMPLOYEE)"
// @Success      200  {object}  dto.DealStatsResponse
// @Router       /api/deals/stats [get]
func (h *DealHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetActor(c), c.Query("owner_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/deals/:id
func (h *DealHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/deals/:id
func (h *DealHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDealRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStage PATCH /api/deals/:id/stage
func (h *DealHandler) UpdateStage(c *fiber.Ctx) error {
	var in dto.UpdateDealStageRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateStage(c.UserContext(), GetActor(c), c.Params("id"), in.Stage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/deals/:id
func (h *DealHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
