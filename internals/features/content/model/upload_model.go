package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Upload ledger states.
const (
	UploadPending  = "pending"
	UploadAttached = "attached"
	UploadOrphaned = "orphaned"
)

// UploadModel records every stored object until a content row references it.
type UploadModel struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Key       string         `gorm:"column:object_key;type:text;not null;uniqueIndex" json:"key"`
	PublicURL string         `gorm:"column:public_url;type:text;not null" json:"public_url"`
	Kind      string         `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	Status    string         `gorm:"column:status;type:varchar(16);not null;default:pending;index" json:"status"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UploadModel) TableName() string {
	return "uploads"
}

func (m *UploadModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
