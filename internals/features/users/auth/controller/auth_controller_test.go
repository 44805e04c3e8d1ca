package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/databases/dbtest"
	"biolab_backend/internals/features/users/auth/service"
	"biolab_backend/internals/helpers/logger"
	authMiddleware "biolab_backend/internals/middlewares/auth"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := dbtest.Open(t)
	tokens, err := service.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	svc := service.NewAuthService(db, tokens)
	ac := NewAuthController(svc, logger.Nop(), false)

	a := &authMiddleware.Authenticator{Tokens: tokens, Revoked: svc, Profiles: authMiddleware.GormResolver{DB: db}}
	app := fiber.New()
	app.Use(a.Middleware())
	g := app.Group("/api/auth")
	g.Post("/login", ac.Login)
	g.Post("/register", ac.Register)
	g.Post("/logout", ac.Logout)
	g.Get("/me", authMiddleware.RequireSession(), ac.Me)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Language", "ru")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

const registerBody = `{"email":"dana@school.kz","password":"secret1","confirm_password":"secret1","full_name":"Дана","class":8}`

func TestRegisterLoginLogout(t *testing.T) {
	app := newApp(t)

	if code, body := call(t, app, "POST", "/api/auth/register", registerBody, ""); code != fiber.StatusCreated {
		t.Fatalf("register: %d %v", code, body)
	}
	if code, _ := call(t, app, "POST", "/api/auth/register", registerBody, ""); code != fiber.StatusConflict {
		t.Fatalf("duplicate register: %d", code)
	}
	if code, _ := call(t, app, "POST", "/api/auth/login", `{"email":"dana@school.kz","password":"nope"}`, ""); code != fiber.StatusUnauthorized {
		t.Fatalf("bad login: %d", code)
	}

	code, body := call(t, app, "POST", "/api/auth/login", `{"email":"dana@school.kz","password":"secret1"}`, "")
	if code != fiber.StatusOK {
		t.Fatalf("login: %d %v", code, body)
	}
	token, _ := body["data"].(map[string]any)["access_token"].(string)
	if token == "" {
		t.Fatalf("no access token in %v", body)
	}

	code, body = call(t, app, "GET", "/api/auth/me", "", token)
	if code != fiber.StatusOK {
		t.Fatalf("me: %d", code)
	}
	session := body["data"].(map[string]any)["session"].(map[string]any)
	if session["role"] != "student" || session["state"] != "resolved" {
		t.Fatalf("session = %v", session)
	}

	if code, _ := call(t, app, "POST", "/api/auth/logout", "", token); code != fiber.StatusOK {
		t.Fatalf("logout: %d", code)
	}
	if code, _ := call(t, app, "GET", "/api/auth/me", "", token); code != fiber.StatusUnauthorized {
		t.Fatalf("me after logout: %d", code)
	}
	if code, _ := call(t, app, "POST", "/api/auth/logout", "", ""); code != fiber.StatusUnauthorized {
		t.Fatalf("logout without token: %d", code)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newApp(t)
	code, body := call(t, app, "POST", "/api/auth/register",
		`{"email":"not-an-email","password":"secret1","confirm_password":"other","full_name":"  ","class":5}`, "")
	if code != fiber.StatusUnprocessableEntity {
		t.Fatalf("status %d", code)
	}
	errs, _ := body["errors"].(map[string]any)
	for _, field := range []string{"email", "confirm_password", "full_name", "class"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("missing error for %s in %v", field, errs)
		}
	}
}
