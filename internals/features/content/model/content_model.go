package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"biolab_backend/internals/features/content/schema"
)

// ContentModel maps one row of labs, steam, teachers_materials or students_materials.
// The table is chosen per call with db.Table(kind.Table()).
type ContentModel struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"column:title;type:text;not null" json:"title"`
	TitleKZ       *string        `gorm:"column:title_kz;type:text" json:"title_kz,omitempty"`
	Description   *string        `gorm:"column:description;type:text" json:"description"`
	DescriptionKZ *string        `gorm:"column:description_kz;type:text" json:"description_kz,omitempty"`
	Theory        *string        `gorm:"column:theory;type:text" json:"theory"`
	TheoryKZ      *string        `gorm:"column:theory_kz;type:text" json:"theory_kz,omitempty"`
	Process       *string        `gorm:"column:process;type:text" json:"process"`
	ProcessKZ     *string        `gorm:"column:process_kz;type:text" json:"process_kz,omitempty"`
	ClassLevel    *int           `gorm:"column:class_level" json:"class_level"`
	ImageURL      *string        `gorm:"column:image_url;type:text" json:"image_url"`
	VideoURL      *string        `gorm:"column:video_url;type:text" json:"video_url"`
	ExternalLinks pq.StringArray `gorm:"column:external_links;type:text[]" json:"external_links"`
	Files         pq.StringArray `gorm:"column:files;type:text[]" json:"files"`
	CreatedBy     *uuid.UUID     `gorm:"column:created_by;type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentModel) TableName() string {
	return "labs"
}

func (m *ContentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// KazakhColumns exist only on the labs table.
var KazakhColumns = []string{
	schema.FieldTitleKZ, schema.FieldDescriptionKZ, schema.FieldTheoryKZ, schema.FieldProcessKZ,
}

// OmitColumns lists the columns a kind's table does not have.
func OmitColumns(kind schema.Kind) []string {
	if kind == schema.KindLab {
		return nil
	}
	return KazakhColumns
}

// FromPayload builds a new row from a validated payload.
func FromPayload(p schema.Payload, createdBy *uuid.UUID) ContentModel {
	m := ContentModel{CreatedBy: createdBy}
	m.Apply(p)
	return m
}

// Apply overwrites every content column with p. Identity and timestamps are kept.
func (m *ContentModel) Apply(p schema.Payload) {
	m.Title = p.Title
	m.TitleKZ = p.TitleKZ
	m.Description = p.Description
	m.DescriptionKZ = p.DescriptionKZ
	m.Theory = p.Theory
	m.TheoryKZ = p.TheoryKZ
	m.Process = p.Process
	m.ProcessKZ = p.ProcessKZ
	m.ClassLevel = p.ClassLevel
	m.ImageURL = p.ImageURL
	m.VideoURL = p.VideoURL
	m.ExternalLinks = pq.StringArray(p.ExternalLinks)
	m.Files = pq.StringArray(p.Files)
}

// Payload converts the row back to the entity payload of kind.
func (m ContentModel) Payload(kind schema.Kind) schema.Payload {
	p := schema.Payload{
		Kind:          kind,
		Title:         m.Title,
		TitleKZ:       m.TitleKZ,
		Description:   m.Description,
		DescriptionKZ: m.DescriptionKZ,
		Theory:        m.Theory,
		TheoryKZ:      m.TheoryKZ,
		Process:       m.Process,
		ProcessKZ:     m.ProcessKZ,
		ClassLevel:    m.ClassLevel,
		ImageURL:      m.ImageURL,
		VideoURL:      m.VideoURL,
	}
	if len(m.ExternalLinks) > 0 {
		p.ExternalLinks = []string(m.ExternalLinks)
	}
	if len(m.Files) > 0 {
		p.Files = []string(m.Files)
	}
	return p
}

// URLs returns every storage URL the row references.
func (m ContentModel) URLs() []string {
	var out []string
	if m.ImageURL != nil && *m.ImageURL != "" {
		out = append(out, *m.ImageURL)
	}
	return append(out, m.Files...)
}
