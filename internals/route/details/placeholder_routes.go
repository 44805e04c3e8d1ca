package details

import (
	"github.com/gofiber/fiber/v2"

	placeholderController "biolab_backend/internals/features/placeholder/controller"
	placeholderRoute "biolab_backend/internals/features/placeholder/route"
)

func PlaceholderRoutes(app *fiber.App, ctl *placeholderController.PlaceholderController) {
	placeholderRoute.PlaceholderRoutes(app, ctl)
}
