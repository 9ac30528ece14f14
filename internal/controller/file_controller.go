package controller

import (
	"fmt"
	"net/url"

	"bat-monitor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
}

type fileController struct {
	service service.IFileService
}

func NewFileController(service service.IFileService) IFileController {
	return &fileController{service: service}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	r.Get("/file/:fileId", c.Download)
}

// Download proxies the stored bytes inline, typed by the ?name= extension.
func (c *fileController) Download(ctx *fiber.Ctx) error {
	name := service.DownloadName(ctx.Query("name"))

	// S3 keys carry "/", which FileURL escapes and fiber leaves escaped.
	fileID, err := url.PathUnescape(ctx.Params("fileId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid file id")
	}

	rc, mediaType, err := c.service.Open(ctx.UserContext(), fileID, name)
	if err != nil {
		return httpError(err)
	}

	ctx.Set(fiber.HeaderContentType, mediaType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	// fasthttp closes rc once the body is written.
	return ctx.SendStream(rc)
}
