package middleware

import (
	"strings"

	"mealms-portal/internal/config"
	"mealms-portal/internal/core/services"
	"mealms-portal/internal/pkg/response"
	"mealms-portal/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
)

// SessionMiddleware validates the portal token and resolves the server-side
// session. A logged-out or expired session fails here even if the token
// itself has not expired yet.
func SessionMiddleware(cfg *config.Config, sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var portalToken string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			portalToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if portalToken == "" {
			return response.Unauthorized(c, "Session token required")
		}

		claims, err := token.Validate(portalToken, cfg.Session.Secret)
		if err != nil {
			if err == token.ErrTokenExpired {
				return response.Unauthorized(c, "Session token expired")
			}
			return response.Unauthorized(c, "Invalid session token")
		}

		session, err := sessions.Resolve(claims.SessionID)
		if err != nil {
			return response.Unauthorized(c, "Session is no longer valid")
		}

		c.Locals("sessionID", session.ID)
		c.Locals("upstreamToken", session.UpstreamToken)
		c.Locals("username", session.Username)
		c.Locals("firstName", session.FirstName)
		c.Locals("role", string(session.Role))

		return c.Next()
	}
}

// UpstreamToken pulls the upstream bearer credential set by SessionMiddleware
func UpstreamToken(c *fiber.Ctx) string {
	bearer, _ := c.Locals("upstreamToken").(string)
	return bearer
}
