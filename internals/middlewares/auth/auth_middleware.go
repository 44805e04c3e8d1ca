// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/features/users/auth/service"
	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/logger"
)

// RevocationChecker reports signed-out tokens.
type RevocationChecker interface {
	Revoked(ctx context.Context, raw string) (bool, error)
}

// Authenticator attaches a Session to every request. It never rejects on its own; the
// gates in role_middleware.go decide.
type Authenticator struct {
	Tokens   *service.TokenService
	Revoked  RevocationChecker
	Profiles ProfileResolver
	Log      *logger.Logger
}

func (a *Authenticator) Middleware() fiber.Handler {
	if a.Log == nil {
		a.Log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		s := anonymous
		setSession(c, &s)

		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return c.Next()
		}
		userID, claims, err := a.Tokens.Parse(raw)
		if err != nil {
			a.Log.Debug("token rejected", "path", c.Path(), "error", err)
			return c.Next()
		}
		if a.Revoked != nil {
			revoked, err := a.Revoked.Revoked(c.UserContext(), raw)
			if err != nil {
				a.Log.Error("blacklist lookup failed", "error", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if revoked {
				return c.Next()
			}
		}
		helper.SetRawAccessToken(c, raw)

		s.begin(userID, claims.ExpiresAt.Time)
		p, err := a.Profiles.Resolve(c.UserContext(), userID)
		if err != nil && !errors.Is(err, ErrNoProfile) {
			a.Log.Error("profile lookup failed", "user_id", userID, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		s.resolve(p)
		return c.Next()
	}
}
