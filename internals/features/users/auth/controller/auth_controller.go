package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/features/users/auth/service"
	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/i18n"
	"biolab_backend/internals/helpers/logger"
	authMiddleware "biolab_backend/internals/middlewares/auth"
)

type AuthController struct {
	Auth *service.AuthService
	Log  *logger.Logger
	// SecureCookie marks the access_token cookie Secure (production).
	SecureCookie bool
}

func NewAuthController(auth *service.AuthService, log *logger.Logger, secureCookie bool) *AuthController {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthController{Auth: auth, Log: log, SecureCookie: secureCookie}
}

func (ac *AuthController) setTokenCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   ac.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	lang := i18n.FromRequest(c)
	var in service.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	}
	if err := i18n.Validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, i18n.T(lang, i18n.ValidationFailed), i18n.TranslateErrors(err, lang))
	}

	res, err := ac.Auth.Login(c.UserContext(), in)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return helper.JsonError(c, fiber.StatusUnauthorized, i18n.T(lang, i18n.AuthInvalidCredentials))
	}
	if err != nil {
		ac.Log.Error("login failed", "error", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, i18n.T(lang, i18n.ServerError))
	}
	ac.setTokenCookie(c, res.AccessToken, res.ExpiresAt)
	return helper.JsonOK(c, "ok", res)
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	lang := i18n.FromRequest(c)
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	}
	if err := i18n.Validate.Struct(in); err != nil {
		return helper.JsonValidationError(c, i18n.T(lang, i18n.ValidationFailed), i18n.TranslateErrors(err, lang))
	}

	user, profile, err := ac.Auth.Register(c.UserContext(), in)
	if errors.Is(err, service.ErrEmailTaken) {
		return helper.JsonError(c, fiber.StatusConflict, i18n.T(lang, i18n.AuthEmailTaken))
	}
	if err != nil {
		ac.Log.Error("register failed", "error", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, i18n.T(lang, i18n.ServerError))
	}
	return helper.JsonCreated(c, i18n.T(lang, i18n.AuthRegistered), fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	lang := i18n.FromRequest(c)
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, i18n.T(lang, i18n.AuthUnauthorized))
	}
	if err := ac.Auth.Logout(c.UserContext(), raw); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return helper.JsonError(c, fiber.StatusUnauthorized, i18n.T(lang, i18n.AuthUnauthorized))
		}
		ac.Log.Error("logout failed", "error", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, i18n.T(lang, i18n.ServerError))
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, i18n.T(lang, i18n.AuthLoggedOut), nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	s := authMiddleware.SessionFrom(c)
	return helper.JsonOK(c, "ok", fiber.Map{
		"session":       s,
		"visible_kinds": authMiddleware.VisibleKinds(s.Role),
	})
}
