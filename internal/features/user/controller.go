package user

import (
	"github.com/shahkeval/lead-management-sub000/internal/common/api"
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

type UserRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"omitempty,min=8"`
	UserName     string `json:"user_name" validate:"required"`
	MobileNumber string `json:"mobile_number"`
	RoleID       string `json:"role_id" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// Create godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body UserRequest true "User Input"
// @Success      201 {object} map[string]interface{}
// @Router       /api/users [post]
func (ctrl *UserController) Create(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}
	if req.Password == "" {
		return apperror.Validation("password is required")
	}

	user, err := ctrl.UserService.CreateUser(c.Context(), &CreateUserInput{
		Email:        req.Email,
		Password:     req.Password,
		UserName:     req.UserName,
		MobileNumber: req.MobileNumber,
		RoleID:       req.RoleID,
		Status:       common_models.Status(req.Status),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (ctrl *UserController) List(c *fiber.Ctx) error {
	params, err := api.ParseListParams(c)
	if err != nil {
		return err
	}

	users, total, err := ctrl.UserService.ListUsers(c.Context(), params.Search, params.Page, params.Limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	})
}

func (ctrl *UserController) Get(c *fiber.Ctx) error {
	user, err := ctrl.UserService.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (ctrl *UserController) Update(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	err := ctrl.UserService.UpdateUser(c.Context(), c.Params("id"), &CreateUserInput{
		Email:        req.Email,
		Password:     req.Password,
		UserName:     req.UserName,
		MobileNumber: req.MobileNumber,
		RoleID:       req.RoleID,
		Status:       common_models.Status(req.Status),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated",
	})
}

func (ctrl *UserController) Delete(c *fiber.Ctx) error {
	if err := ctrl.UserService.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted",
	})
}
