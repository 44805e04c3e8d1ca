// internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"biolab_backend/internals/constants"
	authRepo "biolab_backend/internals/features/users/auth/repository"
	userModel "biolab_backend/internals/features/users/user/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// RegisterInput is the body of POST /api/auth/register. Registered accounts are students.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"required,notblank,max=255"`
	Class           int    `json:"class" validate:"required,min=7,max=11"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned to the client after a successful sign-in.
type LoginResult struct {
	AccessToken string                  `json:"access_token"`
	ExpiresAt   time.Time               `json:"expires_at"`
	User        *userModel.UserModel    `json:"user"`
	Profile     *userModel.ProfileModel `json:"profile,omitempty"`
}

type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	// OnProfileChange runs after a profile row is written.
	OnProfileChange func(ctx context.Context, userID uuid.UUID)
}

func NewAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

func (s *AuthService) Tokens() *TokenService { return s.tokens }

// Login checks the password and issues an access token. A user without a profile can still
// sign in; the session then has no role.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.db, in.Email)
	if errors.Is(err, authRepo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPasswordHash(user.Password, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := authRepo.FindProfile(ctx, s.db, user.ID)
	if err != nil && !errors.Is(err, authRepo.ErrProfileNotFound) {
		return nil, err
	}
	role := ""
	if profile != nil {
		role = profile.Role
	}
	token, exp, err := s.tokens.Issue(user.ID, role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user, Profile: profile}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*userModel.UserModel, *userModel.ProfileModel, error) {
	taken, err := authRepo.EmailTaken(ctx, s.db, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, ErrEmailTaken
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}
	class := in.Class
	user := &userModel.UserModel{Email: in.Email, Password: hash}
	profile := &userModel.ProfileModel{
		FullName: strings.TrimSpace(in.FullName),
		Role:     constants.RoleStudent,
		Class:    &class,
	}
	if err := authRepo.CreateUserWithProfile(ctx, s.db, user, profile); err != nil {
		return nil, nil, err
	}
	s.profileChanged(ctx, user.ID)
	return user, profile, nil
}

// EnsureAdmin creates the account or promotes an existing one to admin. A non-empty
// password replaces the stored one.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, fullName, password string) (*userModel.UserModel, bool, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.db, email)
	created := false
	switch {
	case errors.Is(err, authRepo.ErrUserNotFound):
		if len(password) < MinPasswordLength {
			return nil, false, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
		}
		hash, herr := HashPassword(password)
		if herr != nil {
			return nil, false, herr
		}
		user = &userModel.UserModel{Email: email, Password: hash}
		profile := &userModel.ProfileModel{FullName: fullName, Role: constants.RoleAdmin}
		if err := authRepo.CreateUserWithProfile(ctx, s.db, user, profile); err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, err
	default:
		if password != "" {
			hash, herr := HashPassword(password)
			if herr != nil {
				return nil, false, herr
			}
			if err := authRepo.UpdateUserPassword(ctx, s.db, user.ID, hash); err != nil {
				return nil, false, err
			}
		}
		if err := authRepo.UpsertProfile(ctx, s.db, &userModel.ProfileModel{
			UserID: user.ID, FullName: fullName, Role: constants.RoleAdmin,
		}); err != nil {
			return nil, false, err
		}
	}
	s.profileChanged(ctx, user.ID)
	return user, created, nil
}

// Logout blacklists raw until it would have expired.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	_, claims, err := s.tokens.Parse(raw)
	if err != nil {
		return err
	}
	return authRepo.BlacklistToken(ctx, s.db, s.tokens.Fingerprint(raw), claims.ExpiresAt.Time)
}

// Revoked reports whether raw was signed out.
func (s *AuthService) Revoked(ctx context.Context, raw string) (bool, error) {
	return authRepo.IsBlacklisted(ctx, s.db, s.tokens.Fingerprint(raw))
}

func (s *AuthService) profileChanged(ctx context.Context, userID uuid.UUID) {
	if s.OnProfileChange != nil {
		s.OnProfileChange(ctx, userID)
	}
}
