package module

import (
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ModuleController struct {
	ModuleService ModuleService
}

func NewModuleController(moduleService ModuleService) *ModuleController {
	return &ModuleController{
		ModuleService: moduleService,
	}
}

type CreateModuleRequest struct {
	ModuleName string `json:"module_name" validate:"required"`
	Action     string `json:"action" validate:"required,oneof=create update list view delete parent"`
	ParentID   string `json:"parent_id"`
}

// Create godoc
// @Summary      Create a permissionable module entry
// @Tags         modules
// @Accept       json
// @Produce      json
// @Param        input body CreateModuleRequest true "Module Input"
// @Success      201 {object} map[string]interface{}
// @Router       /api/modules [post]
func (ctrl *ModuleController) Create(c *fiber.Ctx) error {
	var req CreateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	module, err := ctrl.ModuleService.CreateModule(c.Context(), req.ModuleName, Action(req.Action), req.ParentID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"module":  module,
	})
}

// List godoc
// @Summary      List live modules with parent names resolved
// @Tags         modules
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/modules [get]
func (ctrl *ModuleController) List(c *fiber.Ctx) error {
	modules, err := ctrl.ModuleService.ListModules(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"modules": modules,
	})
}

func (ctrl *ModuleController) Delete(c *fiber.Ctx) error {
	if err := ctrl.ModuleService.DeleteModule(c.Context(), c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Module deleted",
	})
}
