package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"biolab_backend/internals/constants"
	"biolab_backend/internals/databases/dbtest"
	authRepo "biolab_backend/internals/features/users/auth/repository"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	tokens, err := NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return NewAuthService(dbtest.Open(t), tokens)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	var changed []uuid.UUID
	s.OnProfileChange = func(_ context.Context, id uuid.UUID) { changed = append(changed, id) }

	user, profile, err := s.Register(ctx, RegisterInput{
		Email: "Aruzhan@School.kz", Password: "secret1", ConfirmPassword: "secret1",
		FullName: "  Аружан  ", Class: 9,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "aruzhan@school.kz" || profile.Role != constants.RoleStudent || profile.FullName != "Аружан" {
		t.Fatalf("user=%+v profile=%+v", user, profile)
	}
	if len(changed) != 1 || changed[0] != user.ID {
		t.Fatalf("profile change hook = %v", changed)
	}

	if _, _, err := s.Register(ctx, RegisterInput{Email: "aruzhan@school.kz", Password: "x", FullName: "x", Class: 7}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register err = %v", err)
	}

	if _, err := s.Login(ctx, LoginInput{Email: "aruzhan@school.kz", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := s.Login(ctx, LoginInput{Email: "nobody@school.kz", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}

	res, err := s.Login(ctx, LoginInput{Email: "ARUZHAN@school.kz", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	id, claims, err := s.Tokens().Parse(res.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if id != user.ID || claims.Role != constants.RoleStudent {
		t.Fatalf("claims = %s %+v", id, claims)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	token, _, err := s.Tokens().Issue(uuid.New(), constants.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if revoked, err := s.Revoked(ctx, token); err != nil || revoked {
		t.Fatalf("fresh token revoked=%v err=%v", revoked, err)
	}
	if err := s.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// Second logout of the same token is a no-op.
	if err := s.Logout(ctx, token); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
	if revoked, err := s.Revoked(ctx, token); err != nil || !revoked {
		t.Fatalf("after logout revoked=%v err=%v", revoked, err)
	}
	if err := s.Logout(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage logout err = %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	if _, _, err := s.EnsureAdmin(ctx, "admin@biolab.kz", "Admin", "123"); err == nil {
		t.Fatalf("short password accepted")
	}
	user, created, err := s.EnsureAdmin(ctx, "admin@biolab.kz", "Admin", "longpassword")
	if err != nil || !created {
		t.Fatalf("create admin: created=%v err=%v", created, err)
	}

	// Promote: an existing student becomes admin and keeps their id.
	student, _, err := s.Register(ctx, RegisterInput{
		Email: "teacher@biolab.kz", Password: "secret1", ConfirmPassword: "secret1", FullName: "T", Class: 10,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	promoted, created, err := s.EnsureAdmin(ctx, "teacher@biolab.kz", "Teacher", "")
	if err != nil || created || promoted.ID != student.ID {
		t.Fatalf("promote: created=%v err=%v", created, err)
	}
	p, err := authRepo.FindProfile(ctx, s.db, student.ID)
	if err != nil || p.Role != constants.RoleAdmin {
		t.Fatalf("promoted profile = %+v err=%v", p, err)
	}
	if _, err := s.Login(ctx, LoginInput{Email: "teacher@biolab.kz", Password: "secret1"}); err != nil {
		t.Fatalf("empty password must keep the old one: %v", err)
	}
	if _, err := s.Login(ctx, LoginInput{Email: user.Email, Password: "longpassword"}); err != nil {
		t.Fatalf("admin login: %v", err)
	}
}
