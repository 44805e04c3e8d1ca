package route

import (
	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/features/placeholder/controller"
)

func PlaceholderRoutes(app fiber.Router, ctl *controller.PlaceholderController) {
	g := app.Group("/api/placeholder")
	// Missing segments still reach the handler so it can answer 400.
	g.Get("/", ctl.Render)
	g.Get("/:width", ctl.Render)
	g.Get("/:width/:height", ctl.Render)
}
