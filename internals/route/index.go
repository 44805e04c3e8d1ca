package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	contentRoute "biolab_backend/internals/features/content/route"
	placeholderController "biolab_backend/internals/features/placeholder/controller"
	authController "biolab_backend/internals/features/users/auth/controller"
	"biolab_backend/internals/helpers/logger"
	"biolab_backend/internals/helpers/metrics"
	routeDetails "biolab_backend/internals/route/details"
)

var startTime time.Time

// Deps is everything the route tree hands to controllers.
type Deps struct {
	DB          *gorm.DB
	Env         string
	Log         *logger.Logger
	Metrics     *metrics.Metrics
	Auth        *authController.AuthController
	Content     contentRoute.Controllers
	Placeholder *placeholderController.PlaceholderController
}

// SetupRoutes registers every route. Page routes go last because /:kind matches any single
// segment.
func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	BaseRoutes(app, d.DB, d.Env)
	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics.Handler())
	}

	d.Log.Info("setting up auth routes")
	routeDetails.AuthRoutes(app, d.Auth)

	d.Log.Info("setting up placeholder routes")
	routeDetails.PlaceholderRoutes(app, d.Placeholder)

	d.Log.Info("setting up content routes")
	routeDetails.ContentAPIRoutes(app, d.Content)
	routeDetails.ContentPageRoutes(app, d.Content)
}
