package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoUserAdmin/GoUserAdmin/internal/db/controller"
)

// RespondError translates a controller error to the final HTTP status.
// Validation failures map to 400 with the rule's message, missing entities
// to 404, anything else to a generic 500. Storage causes are logged by the
// controllers and never leak to the client.
func RespondError(c *fiber.Ctx, err error) error {
	var vErr *controller.ValidationError

	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": vErr.Message})
	case errors.Is(err, controller.ErrNotFound):
		return c.SendStatus(fiber.StatusNotFound)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": ErrMsgUnexpected})
	}
}
