package common

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

// IntegrationStatus maps an integration error kind to the HTTP status
// returned to clients.
func IntegrationStatus(e *integrations.Error) int {
	switch e.Kind {
	case integrations.KindAuth:
		return fiber.StatusUnauthorized
	case integrations.KindNotFound:
		return fiber.StatusNotFound
	case integrations.KindConfig:
		return fiber.StatusBadRequest
	case integrations.KindAPI:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusServiceUnavailable
	}
}

// IntegrationError writes err as the tagged-union body of the integration
// error taxonomy. Errors outside the taxonomy are reported as NetworkError.
func IntegrationError(c *fiber.Ctx, err error) error {
	e := integrations.Classify(err)
	return c.Status(IntegrationStatus(e)).JSON(e)
}

// BadRequest writes a 400 ErrorResponse.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: true, Message: message})
}

// ErrorHandler is the fiber error handler shared by the server and handler
// tests. fiber errors keep their code; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(ErrorResponse{
		Error:   true,
		Message: err.Error(),
	})
}
