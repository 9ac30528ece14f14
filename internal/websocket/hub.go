package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/events"
)

// Hub fans bus events out to connected dashboard clients. It implements
// events.Publisher so services publish to it like to NATS.
type Hub struct {
	clients map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	broadcast chan []byte
	count     chan chan int
	done      chan struct{}

	logger logger.ILogger
}

var _ events.Publisher = (*Hub)(nil)

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run owns the client set until ctx ends; all mutation happens here.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"client_id": c.ID,
				"clients":   len(h.clients),
			})

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": c.ID})
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{
						"client_id": c.ID,
					})
					h.drop(c)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// leave unregisters c unless the run loop already stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.Send)
}

// Publish queues an event for every connected client. It never blocks past
// ctx.
func (h *Hub) Publish(ctx context.Context, e events.Event) error {
	data, err := json.Marshal(events.BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount asks the run loop how many clients are connected.
func (h *Hub) ClientCount(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
	case <-h.done:
		return 0, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-reply, nil
}
