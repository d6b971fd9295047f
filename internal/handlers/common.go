package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every error in the standard response envelope.
// Non-HTTP errors are persistence or programming failures: they are logged
// with request context and surfaced generically.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		logrus.WithError(err).
			WithField("method", c.Method()).
			WithField("path", c.Path()).
			Error("request failed")
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// validationError reports malformed input with field-level detail before any
// persistence attempt.
func validationError(c *fiber.Ctx, details map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "validation failed",
		"details": details,
	})
}
