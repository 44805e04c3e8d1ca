package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError maps an error to the failure envelope. *fiber.Error keeps its code;
// anything else becomes a 500 without leaking its text.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "")
}

// ErrorHandler is the app-wide fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
