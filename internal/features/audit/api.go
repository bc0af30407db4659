package audit

import (
	"github.com/shahkeval/lead-management-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller  *AuditController
	roleService middleware.RoleService
}

func NewAuditApi(controller *AuditController, roleService middleware.RoleService) *AuditApi {
	return &AuditApi{
		controller:  controller,
		roleService: roleService,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	group := app.Group("/api/audit", middleware.AuthMiddleware())
	group.Get("/logs", middleware.RequirePermission(h.roleService, "audits", "list"), h.controller.List)
}
