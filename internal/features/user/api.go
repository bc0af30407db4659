package user

import (
	"github.com/shahkeval/lead-management-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller  *UserController
	roleService middleware.RoleService
}

func NewUserApi(controller *UserController, roleService middleware.RoleService) *UserApi {
	return &UserApi{
		controller:  controller,
		roleService: roleService,
	}
}

// Setup registers user administration routes
func (h *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/users", middleware.AuthMiddleware())

	group.Get("/", middleware.RequirePermission(h.roleService, "users", "list"), h.controller.List)
	group.Post("/", middleware.RequirePermission(h.roleService, "users", "create"), h.controller.Create)
	group.Get("/:id", middleware.RequirePermission(h.roleService, "users", "view"), h.controller.Get)
	group.Put("/:id", middleware.RequirePermission(h.roleService, "users", "update"), h.controller.Update)
	group.Delete("/:id", middleware.RequirePermission(h.roleService, "users", "delete"), h.controller.Delete)
}
