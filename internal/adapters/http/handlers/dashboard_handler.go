package handlers

import (
	"mealms-portal/internal/adapters/http/middleware"
	"mealms-portal/internal/core/services"
	"mealms-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the Overview endpoints
type DashboardHandler struct {
	forecast *services.ForecastService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(forecast *services.ForecastService) *DashboardHandler {
	return &DashboardHandler{forecast: forecast}
}

// Overview returns the aggregated forecast view
// @Summary Provisioning overview
// @Description Aggregate the booking feed into totals, chart series, procurement table and per-user schedules
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	view, err := h.forecast.Overview(c.Context(), middleware.UpstreamToken(c))
	if err != nil {
		return response.FromDomainError(c, err, "Failed to load overview")
	}

	return response.Success(c, "Overview retrieved successfully", view)
}
