package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
)

// LeaderboardHandler ranking de ventas.
type LeaderboardHandler struct {
	uc *appanalytics.LeaderboardUseCase
}

// NewLeaderboardHandler construye el handler.
func NewLeaderboardHandler(uc *appanalytics.LeaderboardUseCase) *LeaderboardHandler {
	return &LeaderboardHandler{uc: uc}
}

// Global godoc
// @Summary      Ranking global de la empresa
// @Description  Ordena por revenue cerrado y deals ganados. Ventana opcional sobre la fecha de cierre.
// @Tags         leaderboard
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio de la ventana (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin de la ventana (YYYY-MM-DD)"
// @Success      200  {object}  dto.LeaderboardResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/leaderboard [get]
func (h *LeaderboardHandler) Global(c *fiber.Ctx) error {
	var q dto.LeaderboardQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Global(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Team godoc
// @Summary      Ranking del equipo de un manager
// @Description  MANAGER ve su propio equipo; SUPER_ADMIN debe indicar manager_id.
// @Tags         leaderboard
// @Security     Bearer
// @Produce      json
// @Param        manager_id  query  string  false  "manager (solo SUPER_ADMIN)"
// @Param        start_date  query  string  false  "Inicio de la ventana (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin de la ventana (YYYY-MM-DD)"
// @Success      200  {object}  dto.LeaderboardResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/leaderboard/team [get]
func (h *LeaderboardHandler) Team(c *fiber.Ctx) error {
	var q dto.LeaderboardQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Team(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me GET /api/leaderboard/me: métricas y posición del usuario autenticado.
func (h *LeaderboardHandler) Me(c *fiber.Ctx) error {
	var q dto.LeaderboardQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Me(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
