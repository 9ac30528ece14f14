package controller

import (
	"io"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/internal/pkg/serverutils"
	"bat-monitor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const imageField = "image"

type IClassifyController interface {
	RegisterRoutes(r fiber.Router)
	ClassifyUpload(ctx *fiber.Ctx) error
}

type classifyController struct {
	service service.ISpeciesService
}

func NewClassifyController(service service.ISpeciesService) IClassifyController {
	return &classifyController{service: service}
}

func (c *classifyController) RegisterRoutes(r fiber.Router) {
	r.Post("/classify", c.ClassifyUpload)
}

// ClassifyUpload labels a spectrogram sent as multipart field "image".
func (c *classifyController) ClassifyUpload(ctx *fiber.Ctx) error {
	var q dto.ClassifyUploadQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fh, err := ctx.FormFile(imageField)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field 'image' is required")
	}
	f, err := fh.Open()
	if err != nil {
		return httpError(err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return httpError(err)
	}

	res, err := c.service.Classify(ctx.UserContext(), raw, q.Raw, service.ClassifyMeta{})
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success classify spectrogram", res))
}
