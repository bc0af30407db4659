package middleware

import (
	"strings"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT bearer tokens and injects user claims into context
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperror.Authentication("Authorization header required")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperror.Authentication("Invalid authorization header format")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(token)
		if err != nil {
			return apperror.Authentication("Invalid or expired token")
		}

		c.Locals(utils.UserClaimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromCtx returns the authenticated user's claims, or an auth error when
// the route was reached without passing AuthMiddleware.
func ClaimsFromCtx(c *fiber.Ctx) (*utils.UserClaims, error) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok || claims == nil {
		return nil, apperror.Authentication("Unauthorized")
	}
	return claims, nil
}
