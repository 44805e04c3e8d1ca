package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel carries the role of a user. A user without a profile has no role.
type ProfileModel struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName  string    `gorm:"column:full_name;size:255;not null" json:"full_name"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;default:student" json:"role"`
	Class     *int      `gorm:"column:class" json:"class,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}
