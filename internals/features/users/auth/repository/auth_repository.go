// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "biolab_backend/internals/features/users/auth/model"
	userModel "biolab_backend/internals/features/users/user/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
)

/* ====================== USER ====================== */

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func EmailTaken(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&userModel.UserModel{}).Where("email = ?", normalizeEmail(email)).Count(&n).Error
	return n > 0, err
}

// CreateUserWithProfile inserts both rows in one transaction.
func CreateUserWithProfile(ctx context.Context, db *gorm.DB, user *userModel.UserModel, profile *userModel.ProfileModel) error {
	user.Email = normalizeEmail(user.Email)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", hash).Error
}

/* ====================== PROFILE ====================== */

func FindProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.ProfileModel, error) {
	var p userModel.ProfileModel
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile writes full_name, role and class of the profile keyed by user_id.
func UpsertProfile(ctx context.Context, db *gorm.DB, p *userModel.ProfileModel) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "role", "class", "updated_at"}),
	}).Create(p).Error
}

/* ====================== BLACKLIST TOKEN ====================== */

func BlacklistToken(ctx context.Context, db *gorm.DB, tokenHash string, expiresAt time.Time) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]any{"expired_at": expiresAt, "deleted_at": nil}),
	}).Create(&authModel.TokenBlacklist{Token: tokenHash, ExpiredAt: expiresAt}).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, tokenHash string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", tokenHash, time.Now().UTC()).
		Count(&n).Error
	return n > 0, err
}

// CleanupExpiredBlacklist hard-deletes entries that expired before cutoff.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Unscoped().Where("expired_at <= ?", cutoff).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
