package controller

import (
	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// SessionDefaults fill in the server and client numbers when a request
// leaves them out.
type SessionDefaults struct {
	Server string
	Client string
}

func parseSessionQuery(ctx *fiber.Ctx, defaults SessionDefaults) (dto.SessionQuery, error) {
	var q dto.SessionQuery
	if err := ctx.ParamsParser(&q); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := ctx.QueryParser(&q); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if q.Server == "" {
		q.Server = defaults.Server
	}
	if q.Client == "" {
		q.Client = defaults.Client
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return q, err
	}
	return q, nil
}
