package controller

import (
	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/pkg/serverutils"
	"bat-monitor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDriveAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type driveAuthController struct {
	service service.IDriveAuthService
}

func NewDriveAuthController(service service.IDriveAuthService) IDriveAuthController {
	return &driveAuthController{service: service}
}

func (c *driveAuthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/drive")
	h.Get("/login", c.Login)
	h.Get("/callback", c.Callback)
	h.Get("/status", c.Status)
}

func (c *driveAuthController) Login(ctx *fiber.Ctx) error {
	url, err := c.service.LoginURL()
	if err != nil {
		return httpError(err)
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *driveAuthController) Callback(ctx *fiber.Ctx) error {
	var q dto.DriveCallbackQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	if err := c.service.HandleCallback(ctx.UserContext(), q.State, q.Code); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Google Drive authorized", c.service.Status()))
}

func (c *driveAuthController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Drive authorization status", c.service.Status()))
}
