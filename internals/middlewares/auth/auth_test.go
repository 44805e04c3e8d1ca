package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"biolab_backend/internals/constants"
	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/features/users/auth/service"
	"biolab_backend/internals/helpers/logger"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role   string
		kind   schema.Kind
		action Action
		want   bool
	}{
		{constants.RoleStudent, schema.KindLab, ActionView, true},
		{constants.RoleTeacher, schema.KindSteam, ActionView, true},
		{constants.RoleStudent, schema.KindTeacher, ActionView, false},
		{constants.RoleTeacher, schema.KindTeacher, ActionView, true},
		{constants.RoleTeacher, schema.KindStudent, ActionView, false},
		{constants.RoleStudent, schema.KindStudent, ActionView, true},
		{constants.RoleTeacher, schema.KindLab, ActionCreate, false},
		{constants.RoleStudent, schema.KindLab, ActionDelete, false},
		{constants.RoleAdmin, schema.KindStudent, ActionUpdate, true},
		{"", schema.KindLab, ActionView, false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.kind, tc.action); got != tc.want {
			t.Fatalf("Can(%q, %s, %s) = %v, want %v", tc.role, tc.kind, tc.action, got, tc.want)
		}
	}
	if got := VisibleKinds(constants.RoleTeacher); len(got) != 3 {
		t.Fatalf("teacher kinds = %v", got)
	}
}

func TestSessionTransitions(t *testing.T) {
	s := anonymous
	if s.Authenticated() || s.HasRole(constants.RoleAdmin) {
		t.Fatalf("anonymous session must have no access")
	}
	s.resolve(&Profile{Role: constants.RoleAdmin})
	if s.State != Unauthenticated {
		t.Fatalf("resolve without begin changed state to %s", s.State)
	}

	id := uuid.New()
	s.begin(id, time.Now().Add(time.Hour))
	if s.State != Resolving || s.Authenticated() {
		t.Fatalf("state = %s", s.State)
	}
	s.resolve(nil)
	if s.State != NoProfile || !s.Authenticated() || s.HasRole(constants.AllRoles...) {
		t.Fatalf("no profile session: %+v", s)
	}

	r := anonymous
	r.begin(id, time.Now())
	r.resolve(&Profile{Role: constants.RoleTeacher, FullName: "Айгерим"})
	if r.State != Resolved || !r.HasRole(constants.RoleTeacher) || r.FullName != "Айгерим" {
		t.Fatalf("resolved session: %+v", r)
	}
}

type mapResolver map[uuid.UUID]*Profile

func (m mapResolver) Resolve(ctx context.Context, id uuid.UUID) (*Profile, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, ErrNoProfile
}

type revokedSet map[string]bool

func (r revokedSet) Revoked(ctx context.Context, raw string) (bool, error) { return r[raw], nil }

type harness struct {
	app     *fiber.App
	tokens  *service.TokenService
	revoked revokedSet
	users   map[string]uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tokens, err := service.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	h := &harness{tokens: tokens, revoked: revokedSet{}, users: map[string]uuid.UUID{}}
	profiles := mapResolver{}
	for _, role := range constants.AllRoles {
		id := uuid.New()
		h.users[role] = id
		profiles[id] = &Profile{UserID: id, Role: role}
	}
	h.users["none"] = uuid.New()

	a := &Authenticator{Tokens: tokens, Revoked: h.revoked, Profiles: profiles, Log: logger.Nop()}
	app := fiber.New()
	app.Use(a.Middleware())
	ok := func(c *fiber.Ctx) error { return c.SendString(string(SessionFrom(c).State)) }

	app.Get("/api/me", RequireSession(), ok)
	app.Post("/api/admin/:kind", RequireContent(ActionCreate), ok)
	app.Get("/api/:kind", RequireContent(ActionView), ok)
	app.Get("/admin/:kind/new", AdminPage(), ok)
	app.Get("/dashboard", SignedInPage(), ok)
	app.Get("/:kind", ContentPage(), ok)
	h.app = app
	return h
}

func (h *harness) token(t *testing.T, who string) string {
	t.Helper()
	tok, _, err := h.tokens.Issue(h.users[who], who)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func (h *harness) do(t *testing.T, method, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp.StatusCode, resp.Header.Get("Location")
}

func TestAPIGates(t *testing.T) {
	h := newHarness(t)
	admin, student, teacher, none := h.token(t, "admin"), h.token(t, "student"), h.token(t, "teacher"), h.token(t, "none")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous me", "GET", "/api/me", "", 401},
		{"garbage token", "GET", "/api/me", "not-a-jwt", 401},
		{"no profile me", "GET", "/api/me", none, 200},
		{"student views labs", "GET", "/api/labs", student, 200},
		{"student views teacher materials", "GET", "/api/teachers", student, 403},
		{"teacher views teacher materials", "GET", "/api/teachers", teacher, 200},
		{"no profile views labs", "GET", "/api/labs", none, 403},
		{"anonymous views labs", "GET", "/api/labs", "", 401},
		{"unknown kind", "GET", "/api/planets", admin, 404},
		{"teacher creates lab", "POST", "/api/admin/labs", teacher, 403},
		{"admin creates lab", "POST", "/api/admin/labs", admin, 200},
	}
	for _, tc := range cases {
		if got, _ := h.do(t, tc.method, tc.path, tc.token); got != tc.want {
			t.Fatalf("%s: status %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestRevokedTokenIsAnonymous(t *testing.T) {
	h := newHarness(t)
	tok := h.token(t, "admin")
	h.revoked[tok] = true
	if got, _ := h.do(t, "GET", "/api/me", tok); got != 401 {
		t.Fatalf("revoked token status %d", got)
	}
}

func TestNewLabPageRedirects(t *testing.T) {
	h := newHarness(t)

	if code, _ := h.do(t, "GET", "/admin/labs/new", h.token(t, "admin")); code != 200 {
		t.Fatalf("admin status %d", code)
	}
	code, loc := h.do(t, "GET", "/admin/labs/new", h.token(t, "student"))
	if code != fiber.StatusFound || loc != DashboardPath {
		t.Fatalf("student: %d %q", code, loc)
	}
	code, loc = h.do(t, "GET", "/admin/labs/new", "")
	if code != fiber.StatusFound || loc != LoginPath {
		t.Fatalf("anonymous: %d %q", code, loc)
	}
	code, loc = h.do(t, "GET", "/teachers", h.token(t, "student"))
	if code != fiber.StatusFound || loc != DashboardPath {
		t.Fatalf("student on teacher materials: %d %q", code, loc)
	}
	if code, _ := h.do(t, "GET", "/dashboard", h.token(t, "none")); code != 200 {
		t.Fatalf("no profile dashboard: %d", code)
	}
}

type countingResolver struct {
	calls int
	err   error
}

func (r *countingResolver) Resolve(ctx context.Context, id uuid.UUID) (*Profile, error) {
	r.calls++
	return &Profile{UserID: id, Role: constants.RoleStudent}, r.err
}

func TestCachedResolverWithoutRedis(t *testing.T) {
	next := &countingResolver{}
	r := NewCachedResolver(next, nil, time.Minute, nil)
	id := uuid.New()
	for i := 0; i < 2; i++ {
		p, err := r.Resolve(context.Background(), id)
		if err != nil || p.Role != constants.RoleStudent {
			t.Fatalf("Resolve: %v %v", p, err)
		}
	}
	if next.calls != 2 {
		t.Fatalf("calls = %d", next.calls)
	}
	r.Invalidate(context.Background(), id)

	next.err = errors.New("db down")
	if _, err := r.Resolve(context.Background(), id); err == nil {
		t.Fatalf("expected error")
	}
}
