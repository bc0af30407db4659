package system

import (
	"github.com/shahkeval/lead-management-sub000/internal/database"
	"github.com/shahkeval/lead-management-sub000/internal/features/notification"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	mongodb *database.MongodbDB
	events  *notification.Hub
}

func NewHealthApi(mongodb *database.MongodbDB, events *notification.Hub) *HealthApi {
	return &HealthApi{
		mongodb: mongodb,
		events:  events,
	}
}

// Setup registers the health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.HealthCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check server and database liveness
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := h.mongodb.Client.Ping(c.Context(), nil); err != nil {
		dbStatus = "down"
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"status":     "ok",
		"database":   dbStatus,
		"ws_clients": h.events.ClientCount(),
	})
}
