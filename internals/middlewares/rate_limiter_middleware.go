package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/i18n"
)

func rateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, i18n.T(i18n.FromRequest(c), i18n.TooManyRequests))
		},
	})
}

// Global limiter for the /api tree.
func GlobalRateLimiter() fiber.Handler {
	return rateLimiter(300, time.Minute)
}

// Login is stricter.
func LoginRateLimiter() fiber.Handler {
	return rateLimiter(10, time.Minute)
}

func RegisterRateLimiter() fiber.Handler {
	return rateLimiter(5, 5*time.Minute)
}

// Upload limiter keys by IP as well; multipart bodies are the expensive path.
func UploadRateLimiter() fiber.Handler {
	return rateLimiter(60, time.Minute)
}
