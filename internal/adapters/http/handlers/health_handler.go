package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Root handles the root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "Meal MS Manager Portal API",
		"version": "1.0",
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Description Returns service health and uptime
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

// APIInfo handles the API info endpoint
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "Meal MS Manager Portal API v1",
		"endpoints": []string{
			"POST /api/v1/auth/login",
			"POST /api/v1/auth/logout",
			"GET  /api/v1/auth/me",
			"GET  /api/v1/employees",
			"GET  /api/v1/employees/search",
			"POST /api/v1/employees",
			"PUT  /api/v1/employees/:id",
			"DELETE /api/v1/employees/:id",
			"POST /api/v1/employees/import",
			"GET  /api/v1/dashboard/overview",
		},
	})
}
