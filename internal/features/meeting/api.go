package meeting

import (
	"github.com/shahkeval/lead-management-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MeetingApi struct {
	controller  *MeetingController
	roleService middleware.RoleService
}

func NewMeetingApi(controller *MeetingController, roleService middleware.RoleService) *MeetingApi {
	return &MeetingApi{
		controller:  controller,
		roleService: roleService,
	}
}

// Setup registers the meeting routes. Fixed paths go first so the :id
// parameter cannot shadow them.
func (h *MeetingApi) Setup(app *fiber.App) {
	group := app.Group("/api/meetings", middleware.AuthMiddleware())

	group.Get("/get", middleware.RequirePermission(h.roleService, "meetings", "list"), h.controller.List)
	group.Get("/get_persone_meeting", middleware.RequirePermission(h.roleService, "meetings", "list"), h.controller.ListOwn)
	group.Get("/export", middleware.RequirePermission(h.roleService, "meetings", "list"), h.controller.Export)
	group.Post("/add", middleware.RequirePermission(h.roleService, "meetings", "create"), h.controller.Create)
	group.Put("/update/:id", middleware.RequirePermission(h.roleService, "meetings", "update"), h.controller.Update)
	group.Get("/:id", middleware.RequirePermission(h.roleService, "meetings", "view"), h.controller.Get)
	group.Delete("/:id", middleware.RequirePermission(h.roleService, "meetings", "delete"), h.controller.Delete)
}
