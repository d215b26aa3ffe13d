package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
)

// ReportHandler maneja los endpoints de reportes.
type ReportHandler struct {
	uc *appanalytics.ReportsUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportsUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Dashboard devuelve los contadores del panel principal dentro del scope del usuario.
// GET /api/reports/dashboard
//
// Respuesta: DashboardDTO (total_leads, new_leads_this_month, total_customers,
// activities_today, overdue_activities).
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.uc.Dashboard(c.UserContext(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// SalesPerformance godoc
// @Summary      Conversión de leads y serie mensual
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesPerformanceDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales-performance [get]
func (h *ReportHandler) SalesPerformance(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SalesPerformance(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EmployeeProductivity GET /api/reports/employee-productivity (MANAGER, SUPER_ADMIN).
func (h *ReportHandler) EmployeeProductivity(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.EmployeeProductivity(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OverdueFollowUps GET /api/reports/overdue-followups
func (h *ReportHandler) OverdueFollowUps(c *fiber.Ctx) error {
	out, err := h.uc.OverdueFollowUps(c.UserContext(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LeadSources GET /api/reports/lead-sources
func (h *ReportHandler) LeadSources(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.LeadSources(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
