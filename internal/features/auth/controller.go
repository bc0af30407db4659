package auth

import (
	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"
	common_models "github.com/shahkeval/lead-management-sub000/internal/common/models"
	"github.com/shahkeval/lead-management-sub000/internal/features/user"
	"github.com/shahkeval/lead-management-sub000/internal/middleware"
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	UserName     string `json:"user_name" validate:"required"`
	MobileNumber string `json:"mobile_number"`
	RoleID       string `json:"role_id" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterRequest true "Register Input"
// @Success      201 {object} map[string]interface{}
// @Router       /api/auth/register [post]
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	usr, err := ctrl.AuthService.Register(c.Context(), &user.CreateUserInput{
		Email:        req.Email,
		Password:     req.Password,
		UserName:     req.UserName,
		MobileNumber: req.MobileNumber,
		RoleID:       req.RoleID,
		Status:       common_models.StatusActive,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    usr,
	})
}

// Login godoc
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Login Input"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Router       /api/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	token, err := ctrl.AuthService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

// Me godoc
// @Summary      Current user profile with role and resolved grants
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /api/auth/me [get]
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	claims, err := middleware.ClaimsFromCtx(c)
	if err != nil {
		return err
	}

	profile, err := ctrl.AuthService.Me(c.Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"profile": profile,
	})
}
