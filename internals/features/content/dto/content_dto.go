// file: internals/features/content/dto/content_dto.go
package dto

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"biolab_backend/internals/features/content/model"
	"biolab_backend/internals/features/content/repository"
	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/helpers/i18n"
)

/* =======================================================
   REQUEST
   ======================================================= */

// ContentRequest is the JSON body of the admin create/update endpoints. Fields a kind does
// not carry are dropped by normalization.
type ContentRequest struct {
	Title         string   `json:"title"`
	TitleKZ       *string  `json:"title_kz"`
	Description   *string  `json:"description"`
	DescriptionKZ *string  `json:"description_kz"`
	Theory        *string  `json:"theory"`
	TheoryKZ      *string  `json:"theory_kz"`
	Process       *string  `json:"process"`
	ProcessKZ     *string  `json:"process_kz"`
	ClassLevel    *int     `json:"class_level"`
	ImageURL      *string  `json:"image_url"`
	VideoURL      *string  `json:"video_url"`
	ExternalLinks []string `json:"external_links"`
	Files         []string `json:"files"`
}

func (r ContentRequest) ToPayload(kind schema.Kind) schema.Payload {
	return schema.Payload{
		Kind:          kind,
		Title:         r.Title,
		TitleKZ:       r.TitleKZ,
		Description:   r.Description,
		DescriptionKZ: r.DescriptionKZ,
		Theory:        r.Theory,
		TheoryKZ:      r.TheoryKZ,
		Process:       r.Process,
		ProcessKZ:     r.ProcessKZ,
		ClassLevel:    r.ClassLevel,
		ImageURL:      r.ImageURL,
		VideoURL:      r.VideoURL,
		ExternalLinks: r.ExternalLinks,
		Files:         r.Files,
	}
}

// FieldsRequest sets raw form values. class_level is sent as a string, like the select box.
type FieldsRequest struct {
	Values map[string]string `json:"values"`
}

type LinkRequest struct {
	URL string `json:"url"`
}

var ErrBadClassLevel = errors.New("class_level must be an integer")

// ParseListFilter reads ?class_level= and ?search=.
func ParseListFilter(c *fiber.Ctx) (repository.ListFilter, error) {
	f := repository.ListFilter{Search: strings.TrimSpace(c.Query("search"))}
	if raw := strings.TrimSpace(c.Query("class_level")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return repository.ListFilter{}, ErrBadClassLevel
		}
		f.ClassLevel = &n
	}
	return f, nil
}

/* =======================================================
   RESPONSE
   ======================================================= */

// ContentResponse is the reader view of a row in one language. Labs fall back to the
// Russian column when the Kazakh one is empty.
type ContentResponse struct {
	ID            uuid.UUID `json:"id"`
	Kind          string    `json:"kind"`
	Lang          i18n.Lang `json:"lang"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Theory        *string   `json:"theory,omitempty"`
	Process       *string   `json:"process,omitempty"`
	ClassLevel    *int      `json:"class_level"`
	ImageURL      *string   `json:"image_url"`
	VideoURL      *string   `json:"video_url,omitempty"`
	ExternalLinks []string  `json:"external_links"`
	Files         []string  `json:"files"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func pick(lang i18n.Lang, ru, kz *string) *string {
	if lang == i18n.KZ && kz != nil && strings.TrimSpace(*kz) != "" {
		return kz
	}
	return ru
}

func ToContentResponse(kind schema.Kind, m model.ContentModel, lang i18n.Lang) ContentResponse {
	title := pick(lang, &m.Title, m.TitleKZ)
	out := ContentResponse{
		ID:            m.ID,
		Kind:          kind.Segment(),
		Lang:          lang,
		Title:         *title,
		Description:   pick(lang, m.Description, m.DescriptionKZ),
		Theory:        pick(lang, m.Theory, m.TheoryKZ),
		Process:       pick(lang, m.Process, m.ProcessKZ),
		ClassLevel:    m.ClassLevel,
		ImageURL:      m.ImageURL,
		VideoURL:      m.VideoURL,
		ExternalLinks: []string(m.ExternalLinks),
		Files:         []string(m.Files),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if out.ExternalLinks == nil {
		out.ExternalLinks = []string{}
	}
	if out.Files == nil {
		out.Files = []string{}
	}
	return out
}

func ToContentResponses(kind schema.Kind, rows []model.ContentModel, lang i18n.Lang) []ContentResponse {
	out := make([]ContentResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToContentResponse(kind, m, lang))
	}
	return out
}

// StatsResponse is one dashboard tile.
type StatsResponse struct {
	Kind    string                       `json:"kind"`
	Title   string                       `json:"title"`
	Total   int64                        `json:"total"`
	ByClass []repository.ClassLevelCount `json:"by_class"`
}
