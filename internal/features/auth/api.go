package auth

import (
	"github.com/shahkeval/lead-management-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
}

func NewAuthApi(controller *AuthController) *AuthApi {
	return &AuthApi{
		controller: controller,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Post("/register", h.controller.Register)
	group.Post("/login", h.controller.Login)
	group.Get("/me", middleware.AuthMiddleware(), h.controller.Me)
}
