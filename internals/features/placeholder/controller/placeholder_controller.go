package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/features/placeholder/service"
	"biolab_backend/internals/helpers/logger"
)

type PlaceholderController struct {
	Log *logger.Logger
}

func NewPlaceholderController(log *logger.Logger) *PlaceholderController {
	if log == nil {
		log = logger.Nop()
	}
	return &PlaceholderController{Log: log}
}

// GET /api/placeholder/:width/:height?format=svg|png|webp
// Errors are plain text.
func (ctl *PlaceholderController) Render(c *fiber.Ctx) error {
	w, h, err := service.ParseDimensions(c.Params("width"), c.Params("height"))
	if err != nil {
		msg := "Invalid dimensions"
		if errors.Is(err, service.ErrMissingDimensions) {
			msg = "Width and height required"
		}
		return c.Status(fiber.StatusBadRequest).SendString(msg)
	}

	var (
		body []byte
		ct   string
	)
	switch c.Query("format", "svg") {
	case "png":
		body, err = service.PNG(w, h)
		ct = "image/png"
	case "webp":
		body, err = service.WebP(w, h)
		ct = "image/webp"
	case "svg":
		body, ct = service.SVG(w, h), "image/svg+xml"
	default:
		return c.Status(fiber.StatusBadRequest).SendString("Unsupported format")
	}
	if err != nil {
		ctl.Log.Error("placeholder render failed", "width", w, "height", h, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000")
	return c.Send(body)
}
