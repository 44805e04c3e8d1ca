package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"biolab_backend/internals/features/content/model"
)

// UploadRepository maintains the uploads ledger.
type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Record(ctx context.Context, m *model.UploadModel) error {
	if m.Status == "" {
		m.Status = model.UploadPending
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// SetStatusByURL moves every ledger row whose public_url is in urls to status.
func (r *UploadRepository) SetStatusByURL(ctx context.Context, urls []string, status string) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.UploadModel{}).
		Where("public_url IN ?", urls).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (r *UploadRepository) DeleteByURL(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("public_url IN ?", urls).Delete(&model.UploadModel{}).Error
}

// Stale returns rows in one of statuses last touched before cutoff, oldest first.
func (r *UploadRepository) Stale(ctx context.Context, statuses []string, cutoff time.Time, limit int) ([]model.UploadModel, error) {
	var rows []model.UploadModel
	q := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", statuses, cutoff).
		Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UploadRepository) FindByURL(ctx context.Context, url string) (model.UploadModel, error) {
	var m model.UploadModel
	err := r.db.WithContext(ctx).Where("public_url = ?", url).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	}
	return m, err
}
