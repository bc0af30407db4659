package middleware

import (
	"context"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"

	"github.com/gofiber/fiber/v2"
)

// RoleService is the slice of the role feature the middleware needs.
// An adapter in main satisfies it to avoid a package cycle.
type RoleService interface {
	CheckPermission(ctx context.Context, roleID string, moduleName, action string) (bool, error)
}

// RequirePermission gates a route on an exact (moduleName, action) grant of
// the requester's role. The role is loaded fresh on every request, so revoked
// rights and deactivated roles take effect immediately.
func RequirePermission(roleService RoleService, moduleName, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := ClaimsFromCtx(c)
		if err != nil {
			return err
		}

		allowed, err := roleService.CheckPermission(c.Context(), claims.RoleID, moduleName, action)
		if err != nil {
			return err
		}
		if !allowed {
			return apperror.Authorization("Access denied: insufficient permissions for this action")
		}

		return c.Next()
	}
}
