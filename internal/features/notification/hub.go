package notification

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is a domain notification pushed to connected clients. An empty
// RecipientID means the event is broadcast to everyone.
type Event struct {
	Type        string      `json:"type"`
	Message     string      `json:"message"`
	RecipientID string      `json:"recipient_id,omitempty"`
	Payload     interface{} `json:"payload,omitempty"`
	At          time.Time   `json:"at"`
}

const (
	EventLeadCreated      = "lead.created"
	EventLeadAssigned     = "lead.assigned"
	EventMeetingScheduled = "meeting.scheduled"
	EventMeetingReminder  = "meeting.reminder"
)

const sendBufferSize = 32

// Client is one registered websocket subscriber. Events arrive on a buffered
// channel drained by the connection's single writer goroutine, so publishers
// never touch the connection directly.
type Client struct {
	userID string
	send   chan Event
}

// Events is the client's receive channel; closed on Unregister.
func (c *Client) Events() <-chan Event {
	return c.send
}

// Hub fans events out to registered clients. Addressed events go only to the
// recipient's connections; slow consumers drop events, they never block
// publishers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		userID: userID,
		send:   make(chan Event, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if h.clients[client] {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if event.RecipientID != "" && client.userID != event.RecipientID {
			continue
		}
		select {
		case client.send <- event:
		default:
			if h.logger != nil {
				h.logger.Warn("event dropped for slow consumer", zap.String("type", event.Type))
			}
		}
	}

	if h.logger != nil {
		h.logger.Debug("event published", zap.String("type", event.Type))
	}
}

// ClientCount is used by the health endpoint and tests.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
