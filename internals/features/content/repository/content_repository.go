package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"biolab_backend/internals/features/content/model"
	"biolab_backend/internals/features/content/schema"
)

var ErrNotFound = errors.New("content not found")

// ListFilter narrows FetchAll. Zero value lists everything.
type ListFilter struct {
	ClassLevel *int
	Search     string
}

func (f ListFilter) Empty() bool {
	return f.ClassLevel == nil && strings.TrimSpace(f.Search) == ""
}

// ContentRepository talks to the four content tables. Every method is one statement with no
// retry.
type ContentRepository struct {
	db            *gorm.DB
	insertTimeout time.Duration
	now           func() time.Time
}

func NewContentRepository(db *gorm.DB, insertTimeout time.Duration) *ContentRepository {
	return &ContentRepository{db: db, insertTimeout: insertTimeout, now: time.Now}
}

func (r *ContentRepository) table(ctx context.Context, kind schema.Kind) *gorm.DB {
	return r.db.WithContext(ctx).Table(kind.Table())
}

/* ====================== WRITE ====================== */

// Create inserts m into the kind's table. m.ID, CreatedAt and UpdatedAt are filled in.
func (r *ContentRepository) Create(ctx context.Context, kind schema.Kind, m *model.ContentModel) error {
	if r.insertTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.insertTimeout)
		defer cancel()
	}
	q := r.table(ctx, kind)
	if omit := model.OmitColumns(kind); len(omit) > 0 {
		q = q.Omit(omit...)
	}
	return q.Create(m).Error
}

// Update overwrites the content columns of row id and refreshes updated_at.
func (r *ContentRepository) Update(ctx context.Context, kind schema.Kind, id uuid.UUID, p schema.Payload) (model.ContentModel, error) {
	var m model.ContentModel
	m.Apply(p)
	cols := map[string]interface{}{
		schema.FieldTitle:         m.Title,
		schema.FieldDescription:   m.Description,
		schema.FieldTheory:        m.Theory,
		schema.FieldProcess:       m.Process,
		schema.FieldClassLevel:    m.ClassLevel,
		schema.FieldImageURL:      m.ImageURL,
		schema.FieldVideoURL:      m.VideoURL,
		schema.FieldExternalLinks: m.ExternalLinks,
		schema.FieldFiles:         m.Files,
		"updated_at":              r.now(),
	}
	if kind == schema.KindLab {
		cols[schema.FieldTitleKZ] = m.TitleKZ
		cols[schema.FieldDescriptionKZ] = m.DescriptionKZ
		cols[schema.FieldTheoryKZ] = m.TheoryKZ
		cols[schema.FieldProcessKZ] = m.ProcessKZ
	}

	res := r.table(ctx, kind).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return model.ContentModel{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.ContentModel{}, ErrNotFound
	}
	return r.FetchByID(ctx, kind, id)
}

// Delete removes row id. A missing row reports ErrNotFound.
func (r *ContentRepository) Delete(ctx context.Context, kind schema.Kind, id uuid.UUID) error {
	res := r.table(ctx, kind).Where("id = ?", id).Delete(&model.ContentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

/* ====================== READ ====================== */

// FetchAll lists rows newest first.
func (r *ContentRepository) FetchAll(ctx context.Context, kind schema.Kind, f ListFilter) ([]model.ContentModel, error) {
	q := r.table(ctx, kind)
	if f.ClassLevel != nil {
		q = q.Where("class_level = ?", *f.ClassLevel)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var out []model.ContentModel
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContentRepository) FetchByID(ctx context.Context, kind schema.Kind, id uuid.UUID) (model.ContentModel, error) {
	var m model.ContentModel
	err := r.table(ctx, kind).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ContentModel{}, ErrNotFound
	}
	return m, err
}

// ClassLevelCount is one row of the dashboard stats.
type ClassLevelCount struct {
	ClassLevel *int  `json:"class_level"`
	Count      int64 `json:"count"`
}

// CountByClassLevel groups the kind's rows by class_level. Rows without a level come back
// with a nil ClassLevel.
func (r *ContentRepository) CountByClassLevel(ctx context.Context, kind schema.Kind) ([]ClassLevelCount, error) {
	var out []ClassLevelCount
	err := r.table(ctx, kind).
		Select("class_level, COUNT(*) AS count").
		Group("class_level").
		Order("class_level").
		Scan(&out).Error
	return out, err
}

// Ping checks the connection, used by /health.
func (r *ContentRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
