package controller

import (
	"errors"

	"bat-monitor-be/internal/service"
	"bat-monitor-be/pkg/classifier"
	"bat-monitor-be/pkg/remotestore"

	"github.com/gofiber/fiber/v2"
)

// httpError maps service and domain errors to the status code the API
// answers with; ErrorHandlerMiddleware renders the result.
func httpError(err error) error {
	var fe *fiber.Error
	var notFound *service.FolderNotFoundError

	switch {
	case errors.As(err, &fe):
		return fe
	case errors.As(err, &notFound):
		return fiber.NewError(fiber.StatusNotFound, notFound.Error())
	case errors.Is(err, service.ErrSpectrogramMissing),
		errors.Is(err, service.ErrSampleSensorMissing):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, remotestore.ErrObjectNotFound):
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	case errors.Is(err, service.ErrSpectrogramTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUnsafeFolderName):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, classifier.ErrDecode):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, classifier.ErrModelUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Species classifier is unavailable")
	case errors.Is(err, service.ErrInvalidOAuthState):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDriveAuthDisabled):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
