package controller

import (
	"bat-monitor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBatController interface {
	RegisterRoutes(r fiber.Router)
	GetFiles(ctx *fiber.Ctx) error
	Classify(ctx *fiber.Ctx) error
}

type batController struct {
	service  service.IBatService
	defaults SessionDefaults
}

func NewBatController(service service.IBatService, defaults SessionDefaults) IBatController {
	return &batController{service: service, defaults: defaults}
}

func (c *batController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bat")
	h.Get("/:batId/files", c.GetFiles)
	h.Get("/:batId/classify", c.Classify)
}

func (c *batController) GetFiles(ctx *fiber.Ctx) error {
	q, err := parseSessionQuery(ctx, c.defaults)
	if err != nil {
		return err
	}

	res, err := c.service.GetFiles(ctx.UserContext(), q)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *batController) Classify(ctx *fiber.Ctx) error {
	q, err := parseSessionQuery(ctx, c.defaults)
	if err != nil {
		return err
	}

	res, err := c.service.ClassifySession(ctx.UserContext(), q)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}
