package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/uni-admin-api/services"
	"github.com/sahilchouksey/uni-admin-api/utils/response"
)

// TranslateServiceError maps the service error taxonomy onto HTTP responses.
// Unclassified errors are logged and surface as a 500 with a generic message.
func TranslateServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrConflict):
		return response.Conflict(c, err.Error())
	default:
		log.Printf("Unhandled service error: %v", err)
		return response.InternalServerError(c, fallback)
	}
}
