package details

import (
	"github.com/gofiber/fiber/v2"

	contentRoute "biolab_backend/internals/features/content/route"
)

func ContentAPIRoutes(app *fiber.App, ctl contentRoute.Controllers) {
	contentRoute.ContentAPIRoutes(app, ctl)
}

// ContentPageRoutes must be mounted last: it ends with the /:kind catch-all.
func ContentPageRoutes(app *fiber.App, ctl contentRoute.Controllers) {
	contentRoute.ContentPageRoutes(app, ctl)
}
