package controller

import (
	"bat-monitor-be/internal/pkg/serverutils"
	"bat-monitor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDebugController interface {
	RegisterRoutes(r fiber.Router)
	ListFolders(ctx *fiber.Ctx) error
	ListItems(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	UploadSensor(ctx *fiber.Ctx) error
}

type debugController struct {
	service   service.IDebugService
	defaults  SessionDefaults
	jwtSecret string
}

// NewDebugController guards its routes with a bearer JWT when jwtSecret is
// set; with an empty secret they are open.
func NewDebugController(service service.IDebugService, defaults SessionDefaults, jwtSecret string) IDebugController {
	return &debugController{service: service, defaults: defaults, jwtSecret: jwtSecret}
}

func (c *debugController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/debug")
	if c.jwtSecret != "" {
		h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	}
	h.Get("/folders", c.ListFolders)
	h.Get("/all-items", c.ListItems)
	h.Get("/download/:batId", c.Download)
	h.Get("/upload-sensor/:batId", c.UploadSensor)
}

func (c *debugController) ListFolders(ctx *fiber.Ctx) error {
	res, err := c.service.ListFolders(ctx.UserContext())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *debugController) ListItems(ctx *fiber.Ctx) error {
	res, err := c.service.ListItems(ctx.UserContext())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *debugController) Download(ctx *fiber.Ctx) error {
	q, err := parseSessionQuery(ctx, c.defaults)
	if err != nil {
		return err
	}
	res, err := c.service.DownloadSession(ctx.UserContext(), q)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *debugController) UploadSensor(ctx *fiber.Ctx) error {
	q, err := parseSessionQuery(ctx, c.defaults)
	if err != nil {
		return err
	}
	res, err := c.service.UploadSampleSensor(ctx.UserContext(), q)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}
