package auth

import (
	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/constants"
	"biolab_backend/internals/features/content/schema"
	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/i18n"
)

/* ===============================
   API gates: 401 / 403 envelopes
=================================*/

// RequireSession rejects requests without an accepted token.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !SessionFrom(c).Authenticated() {
			return helper.JsonError(c, fiber.StatusUnauthorized, i18n.T(i18n.FromRequest(c), i18n.AuthUnauthorized))
		}
		return c.Next()
	}
}

// OnlyRoles passes sessions whose role is one of roles. A session without a profile has no
// role and gets 403.
func OnlyRoles(message string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SessionFrom(c)
		lang := i18n.FromRequest(c)
		if !s.Authenticated() {
			return helper.JsonError(c, fiber.StatusUnauthorized, i18n.T(lang, i18n.AuthUnauthorized))
		}
		if s.HasRole(roles...) {
			return c.Next()
		}
		if message == "" {
			message = i18n.T(lang, i18n.AuthForbidden)
		}
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}

// KindParam parses the :kind route segment.
func KindParam(c *fiber.Ctx) (schema.Kind, bool) {
	k, err := schema.ParseKind(c.Params("kind"))
	return k, err == nil
}

// RequireContent applies Can to the :kind of the route.
func RequireContent(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ok := KindParam(c)
		if !ok {
			return helper.JsonError(c, fiber.StatusNotFound, "")
		}
		s := SessionFrom(c)
		lang := i18n.FromRequest(c)
		if !s.Authenticated() {
			return helper.JsonError(c, fiber.StatusUnauthorized, i18n.T(lang, i18n.AuthUnauthorized))
		}
		if s.State == Resolved && Can(s.Role, kind, action) {
			return c.Next()
		}
		section := i18n.T(lang, kind.TitleKey())
		if action == ActionView {
			return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorView(section))
		}
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin(string(action)+" "+section))
	}
}

/* ===============================
   Page gates: redirects
=================================*/

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// PageGuard redirects anonymous visitors to /login and sessions failing allow to /dashboard.
func PageGuard(allow func(c *fiber.Ctx, s *Session) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SessionFrom(c)
		if !s.Authenticated() {
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		if !allow(c, s) {
			return c.Redirect(DashboardPath, fiber.StatusFound)
		}
		return c.Next()
	}
}

func AdminPage() fiber.Handler {
	return PageGuard(func(_ *fiber.Ctx, s *Session) bool { return s.HasRole(constants.RoleAdmin) })
}

// ContentPage guards /{kind} listing pages by the view policy.
func ContentPage() fiber.Handler {
	return PageGuard(func(c *fiber.Ctx, s *Session) bool {
		kind, ok := KindParam(c)
		return ok && s.State == Resolved && Can(s.Role, kind, ActionView)
	})
}

// SignedInPage only requires an accepted token (the dashboard).
func SignedInPage() fiber.Handler {
	return PageGuard(func(*fiber.Ctx, *Session) bool { return true })
}
