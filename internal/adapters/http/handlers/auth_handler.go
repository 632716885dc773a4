package handlers

import (
	"strings"

	"mealms-portal/internal/core/services"
	"mealms-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles portal session endpoints
type AuthHandler struct {
	sessions *services.SessionService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username     string `json:"username"`
	MobileNumber string `json:"mobileNumber"`
}

// Login handles manager login
// @Summary Login manager
// @Description Verify credentials upstream and open a manager portal session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields before any upstream call
	if strings.TrimSpace(req.Username) == "" {
		return response.BadRequest(c, "Username is required")
	}
	if strings.TrimSpace(req.MobileNumber) == "" {
		return response.BadRequest(c, "Mobile number is required")
	}

	result, err := h.sessions.Login(c.Context(), strings.TrimSpace(req.Username), strings.TrimSpace(req.MobileNumber))
	if err != nil {
		return response.FromDomainError(c, err, "Failed to login")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token": result.Token,
		"user": fiber.Map{
			"username":  result.Session.Username,
			"firstName": result.Session.FirstName,
			"role":      result.Session.Role,
		},
	})
}

// Logout handles manager logout
// @Summary Logout
// @Description Close the current portal session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID, ok := c.Locals("sessionID").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	h.sessions.Logout(sessionID)
	return response.Success(c, "Logout successful", nil)
}

// Me returns the current session identity
// @Summary Current session
// @Description Returns the identity bound to the portal session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	firstName, _ := c.Locals("firstName").(string)
	role, _ := c.Locals("role").(string)

	return response.Success(c, "Session retrieved successfully", fiber.Map{
		"username":  username,
		"firstName": firstName,
		"role":      role,
	})
}
