package role

import (
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	RoleService RoleService
}

func NewRoleController(roleService RoleService) *RoleController {
	return &RoleController{
		RoleService: roleService,
	}
}

type RoleRequest struct {
	RoleName    string `json:"role_name" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// Create godoc
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        input body RoleRequest true "Role Input"
// @Success      201 {object} map[string]interface{}
// @Router       /api/roles [post]
func (ctrl *RoleController) Create(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	role, err := ctrl.RoleService.CreateRole(c.Context(), &Role{
		RoleName:    req.RoleName,
		Description: req.Description,
		Status:      common_models.Status(req.Status),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"role":    role,
	})
}

func (ctrl *RoleController) List(c *fiber.Ctx) error {
	roles, err := ctrl.RoleService.ListRoles(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"roles":   roles,
	})
}

func (ctrl *RoleController) Get(c *fiber.Ctx) error {
	role, err := ctrl.RoleService.GetRole(c.Context(), c.Params("roleId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"role":    role,
	})
}

func (ctrl *RoleController) Update(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	err := ctrl.RoleService.UpdateRole(c.Context(), c.Params("roleId"), &Role{
		RoleName:    req.RoleName,
		Description: req.Description,
		Status:      common_models.Status(req.Status),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Role updated",
	})
}

func (ctrl *RoleController) Delete(c *fiber.Ctx) error {
	if err := ctrl.RoleService.DeleteRole(c.Context(), c.Params("roleId")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Role deleted",
	})
}

// UpdateRights godoc
// @Summary      Replace a role's module grants and visibility scopes
// @Description  The assigned module set is replaced wholesale. Ids that no
// @Description  longer resolve to live modules fail the whole request with 409.
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        input body UpdateRightsRequest true "Rights Input"
// @Success      200 {object} map[string]interface{}
// @Router       /api/roles/{roleId}/rights [put]
func (ctrl *RoleController) UpdateRights(c *fiber.Ctx) error {
	var req UpdateRightsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	role, err := ctrl.RoleService.UpdateRoleRights(c.Context(), c.Params("roleId"), &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"role":    role,
	})
}
