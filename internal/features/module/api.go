package module

import (
	"github.com/shahkeval/lead-management-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ModuleApi struct {
	controller  *ModuleController
	roleService middleware.RoleService
}

func NewModuleApi(controller *ModuleController, roleService middleware.RoleService) *ModuleApi {
	return &ModuleApi{
		controller:  controller,
		roleService: roleService,
	}
}

// Setup registers the module catalog routes
func (h *ModuleApi) Setup(app *fiber.App) {
	group := app.Group("/api/modules", middleware.AuthMiddleware())

	group.Get("/", middleware.RequirePermission(h.roleService, "modules", "list"), h.controller.List)
	group.Post("/", middleware.RequirePermission(h.roleService, "modules", "create"), h.controller.Create)
	group.Delete("/:id", middleware.RequirePermission(h.roleService, "modules", "delete"), h.controller.Delete)
}
