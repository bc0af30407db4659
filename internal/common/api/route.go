package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature API so Fx can collect
// them in the "routes" group and register them on startup.
type Route interface {
	Setup(app *fiber.App)
}
