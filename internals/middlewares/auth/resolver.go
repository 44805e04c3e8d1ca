package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"biolab_backend/internals/constants"
	authRepo "biolab_backend/internals/features/users/auth/repository"
	"biolab_backend/internals/helpers/logger"
)

var ErrNoProfile = errors.New("no profile for user")

// Profile is the role-bearing part of a profiles row.
type Profile struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Class    *int      `json:"class,omitempty"`
}

// ProfileResolver looks up the profile of a signed-in user. ErrNoProfile means the user
// exists but has no role.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type GormResolver struct {
	DB *gorm.DB
}

func (r GormResolver) Resolve(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := authRepo.FindProfile(ctx, r.DB, userID)
	if errors.Is(err, authRepo.ErrProfileNotFound) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, err
	}
	// The CHECK constraint normally prevents this; rows edited by hand may still carry
	// an unknown role, which grants nothing.
	if !constants.IsValidRole(p.Role) {
		return nil, ErrNoProfile
	}
	return &Profile{UserID: p.UserID, FullName: p.FullName, Role: p.Role, Class: p.Class}, nil
}

// =======================
// Redis cache
// =======================

const noProfileMarker = "-"

// CachedResolver keeps resolved profiles in Redis for ttl. A nil client disables caching.
type CachedResolver struct {
	next   ProfileResolver
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

func NewCachedResolver(next ProfileResolver, rdb *goredis.Client, ttl time.Duration, log *logger.Logger) *CachedResolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedResolver{next: next, rdb: rdb, ttl: ttl, prefix: "biolab:profile:", log: log}
}

func (r *CachedResolver) key(id uuid.UUID) string { return r.prefix + id.String() }

func (r *CachedResolver) Resolve(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	if r.rdb != nil {
		raw, err := r.rdb.Get(ctx, r.key(userID)).Result()
		switch {
		case err == nil && raw == noProfileMarker:
			return nil, ErrNoProfile
		case err == nil:
			var p Profile
			if jerr := json.Unmarshal([]byte(raw), &p); jerr == nil {
				return &p, nil
			}
		case !errors.Is(err, goredis.Nil):
			r.log.Warn("profile cache read failed", "error", err)
		}
	}

	p, err := r.next.Resolve(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoProfile) {
		return nil, err
	}
	if r.rdb != nil {
		val := noProfileMarker
		if p != nil {
			b, _ := json.Marshal(p)
			val = string(b)
		}
		if serr := r.rdb.Set(ctx, r.key(userID), val, r.ttl).Err(); serr != nil {
			r.log.Warn("profile cache write failed", "error", serr)
		}
	}
	return p, err
}

// Invalidate drops the cached profile of userID.
func (r *CachedResolver) Invalidate(ctx context.Context, userID uuid.UUID) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, r.key(userID)).Err(); err != nil {
		r.log.Warn("profile cache invalidate failed", "error", err)
	}
}

// NewRedisClient connects to url (redis://...) and pings it.
func NewRedisClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	rdb := goredis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
