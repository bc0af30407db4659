package lead

import (
	"github.com/shahkeval/lead-management-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller  *LeadController
	roleService middleware.RoleService
}

func NewLeadApi(controller *LeadController, roleService middleware.RoleService) *LeadApi {
	return &LeadApi{
		controller:  controller,
		roleService: roleService,
	}
}

// Setup registers the lead routes. Fixed paths go first so the :id
// parameter cannot shadow them.
func (h *LeadApi) Setup(app *fiber.App) {
	group := app.Group("/api/leads", middleware.AuthMiddleware())

	group.Get("/get", middleware.RequirePermission(h.roleService, "leads", "list"), h.controller.List)
	group.Get("/get_persone_lead", middleware.RequirePermission(h.roleService, "leads", "list"), h.controller.ListOwn)
	group.Get("/export", middleware.RequirePermission(h.roleService, "leads", "list"), h.controller.Export)
	group.Post("/add", middleware.RequirePermission(h.roleService, "leads", "create"), h.controller.Create)
	group.Put("/update/:id", middleware.RequirePermission(h.roleService, "leads", "update"), h.controller.Update)
	group.Get("/:id", middleware.RequirePermission(h.roleService, "leads", "view"), h.controller.Get)
	group.Delete("/:id", middleware.RequirePermission(h.roleService, "leads", "delete"), h.controller.Delete)
}
