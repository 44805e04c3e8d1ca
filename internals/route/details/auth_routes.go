package details

import (
	"github.com/gofiber/fiber/v2"

	authController "biolab_backend/internals/features/users/auth/controller"
	authRoute "biolab_backend/internals/features/users/auth/route"
)

func AuthRoutes(app *fiber.App, ac *authController.AuthController) {
	authRoute.AuthRoutes(app, ac)
}
