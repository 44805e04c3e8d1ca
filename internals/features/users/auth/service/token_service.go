// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrMissingSecret = errors.New("jwt secret is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims is the access token body: {"id", "role", "exp", "iat"}.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, leeway: 30 * time.Second, now: time.Now}, nil
}

// Issue signs an HS256 access token for userID.
func (s *TokenService) Issue(userID uuid.UUID, role string) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		ID:   userID.String(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies signature and expiry (with a small leeway) and returns the user id.
func (s *TokenService) Parse(raw string) (uuid.UUID, *Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return uuid.Nil, nil, fmt.Errorf("%w: token has no exp", ErrInvalidToken)
	}
	if s.now().After(claims.ExpiresAt.Time.Add(s.leeway)) {
		return uuid.Nil, nil, fmt.Errorf("%w: token expired at %v", ErrInvalidToken, claims.ExpiresAt.Time)
	}
	id, err := uuid.Parse(strings.TrimSpace(claims.ID))
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: invalid user id", ErrInvalidToken)
	}
	return id, claims, nil
}

// Fingerprint is the blacklist key of a raw token.
func (s *TokenService) Fingerprint(raw string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}
