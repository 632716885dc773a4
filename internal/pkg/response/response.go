package response

import (
	"errors"

	"mealms-portal/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// UnprocessableEntity sends a 422 response
func UnprocessableEntity(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnprocessableEntity, message)
}

// BadGateway sends a 502 response for upstream failures
func BadGateway(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadGateway, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// FromDomainError maps the domain error taxonomy onto HTTP responses so every
// handler surfaces a failure the same way. Errors outside the taxonomy fall
// through to a 500 with the given fallback message.
func FromDomainError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return Unauthorized(c, "Invalid username or mobile number")
	case errors.Is(err, domain.ErrAccessDenied):
		return Forbidden(c, "Access denied: only managers can use the web portal")
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		return Unauthorized(c, "Session is no longer valid")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return NotFound(c, "Employee not found")
	case errors.Is(err, domain.ErrConflict):
		return Conflict(c, "Username or mobile number already exists")
	case errors.Is(err, domain.ErrMutationInFlight), errors.Is(err, domain.ErrImportInFlight):
		return Conflict(c, "Another request is still being processed")
	case errors.Is(err, domain.ErrImportParse), errors.Is(err, domain.ErrImportValidation):
		return UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		return BadGateway(c, "Meal system is unreachable, please try again")
	default:
		return InternalServerError(c, fallback)
	}
}
