// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/features/users/auth/controller"
	"biolab_backend/internals/middlewares"
	authMiddleware "biolab_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth.
func AuthRoutes(app fiber.Router, ac *controller.AuthController) {
	baseAuth := app.Group("/api/auth")

	baseAuth.Post("/login", middlewares.LoginRateLimiter(), ac.Login)
	baseAuth.Post("/register", middlewares.RegisterRateLimiter(), ac.Register)
	baseAuth.Post("/logout", ac.Logout)
	baseAuth.Get("/me", authMiddleware.RequireSession(), ac.Me)
}
