package role

import (
	"github.com/shahkeval/lead-management-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller  *RoleController
	roleService middleware.RoleService
}

func NewRoleApi(controller *RoleController, roleService middleware.RoleService) *RoleApi {
	return &RoleApi{
		controller:  controller,
		roleService: roleService,
	}
}

// Setup registers role administration routes
func (h *RoleApi) Setup(app *fiber.App) {
	group := app.Group("/api/roles", middleware.AuthMiddleware())

	group.Get("/", middleware.RequirePermission(h.roleService, "roles", "list"), h.controller.List)
	group.Post("/", middleware.RequirePermission(h.roleService, "roles", "create"), h.controller.Create)
	group.Get("/:roleId", middleware.RequirePermission(h.roleService, "roles", "view"), h.controller.Get)
	group.Put("/:roleId", middleware.RequirePermission(h.roleService, "roles", "update"), h.controller.Update)
	group.Delete("/:roleId", middleware.RequirePermission(h.roleService, "roles", "delete"), h.controller.Delete)
	group.Put("/:roleId/rights", middleware.RequirePermission(h.roleService, "roles", "update"), h.controller.UpdateRights)
}
