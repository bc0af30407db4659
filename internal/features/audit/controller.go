package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	AuditService AuditService
}

func NewAuditController(auditService AuditService) *AuditController {
	return &AuditController{
		AuditService: auditService,
	}
}

// List godoc
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Param        module query string false "filter by module"
// @Success      200 {object} map[string]interface{}
// @Router       /api/audit/logs [get]
func (ctrl *AuditController) List(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	logs, total, err := ctrl.AuditService.ListLogs(c.Context(), c.Query("module"), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"logs":    logs,
		"total":   total,
	})
}
