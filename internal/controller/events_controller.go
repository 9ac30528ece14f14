package controller

import (
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/internal/pkg/serverutils"
	internalWS "bat-monitor-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IEventsController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
}

type eventsController struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

// NewEventsController serves the live event feed. Browsers cannot set
// headers on a websocket, so with a secret configured the token comes in
// ?token=.
func NewEventsController(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) IEventsController {
	return &eventsController{hub: hub, jwtSecret: jwtSecret, logger: log}
}

func (c *eventsController) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/events", c.Stream)
}

func (c *eventsController) Stream(ctx *fiber.Ctx) error {
	if c.jwtSecret != "" {
		if _, err := serverutils.ParseToken(c.jwtSecret, ctx.Query("token")); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
	}

	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("EVENTS", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(c.hub, conn)
		c.logger.Info("EVENTS", "WebSocket session ended", nil)
	})(ctx)
}
