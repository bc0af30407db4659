package notification

import (
	"github.com/shahkeval/lead-management-sub000/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	hub *Hub
}

func NewNotificationApi(hub *Hub) *NotificationApi {
	return &NotificationApi{hub: hub}
}

// Setup registers the websocket event feed. Browsers cannot set headers on
// websocket requests, so the token travels as a query parameter.
func (h *NotificationApi) Setup(app *fiber.App) {
	app.Use("/api/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := utils.ValidateToken(c.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals(utils.UserClaimsKey, claims)
		return c.Next()
	})

	app.Get("/api/ws/events", websocket.New(h.handleEvents))
}

// handleEvents owns the connection: it is the only goroutine that writes to
// it, pumping the client's event channel into WriteJSON.
func (h *NotificationApi) handleEvents(c *websocket.Conn) {
	defer c.Close()

	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return
	}

	client := h.hub.Register(claims.UserID)
	defer h.hub.Unregister(client)

	// Drain the connection; clients are receive-only. A read error means
	// the peer went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, open := <-client.Events():
			if !open {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
