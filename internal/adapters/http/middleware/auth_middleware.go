package middleware

import (
	"errors"
	"strings"

	"mfi-backoffice/internal/config"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/jwt"
	"mfi-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		session, err := parseSession(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is present but never rejects
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := extractToken(c); accessToken != "" {
			if session, err := parseSession(accessToken, cfg.JWT.Secret); err == nil {
				c.Locals(sessionKey, session)
			}
		}
		return c.Next()
	}
}

// CurrentSession returns the session set by the auth middleware, or nil
func CurrentSession(c *fiber.Ctx) *domain.Session {
	session, _ := c.Locals(sessionKey).(*domain.Session)
	return session
}

// RequireRole creates role-based authorization middleware
func RequireRole(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := CurrentSession(c)
		if session == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !session.HasRole(allowedRoles...) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// ManagerOrAdmin middleware allows managers and admins
func ManagerOrAdmin() fiber.Handler {
	return RequireRole(domain.RoleManager, domain.RoleAdmin)
}

// extractToken reads the access token from the cookie, then the Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func parseSession(accessToken, secret string) (*domain.Session, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, secret)
	if err != nil {
		return nil, err
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, jwt.ErrTokenInvalid
	}
	return &domain.Session{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}
