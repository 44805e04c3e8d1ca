package schema

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"biolab_backend/internals/helpers/i18n"
)

// Payload is the normalized field set written to a content table.
type Payload struct {
	Kind Kind `json:"-" validate:"-"`

	Title         string   `json:"title"`
	TitleKZ       *string  `json:"title_kz,omitempty"`
	Description   *string  `json:"description"`
	DescriptionKZ *string  `json:"description_kz,omitempty"`
	Theory        *string  `json:"theory"`
	TheoryKZ      *string  `json:"theory_kz,omitempty"`
	Process       *string  `json:"process"`
	ProcessKZ     *string  `json:"process_kz,omitempty"`
	ClassLevel    *int     `json:"class_level"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	VideoURL      *string  `json:"video_url" validate:"omitempty,url"`
	ExternalLinks []string `json:"external_links" validate:"omitempty,dive,url"`
	Files         []string `json:"files" validate:"omitempty,dive,url"`
}

func init() {
	i18n.Validate.RegisterStructValidation(payloadStructLevel, Payload{})
}

// textFields maps column names to the payload's optional text pointers.
func (p *Payload) textFields() map[string]**string {
	return map[string]**string{
		FieldTitleKZ:       &p.TitleKZ,
		FieldDescription:   &p.Description,
		FieldDescriptionKZ: &p.DescriptionKZ,
		FieldTheory:        &p.Theory,
		FieldTheoryKZ:      &p.TheoryKZ,
		FieldProcess:       &p.Process,
		FieldProcessKZ:     &p.ProcessKZ,
		FieldVideoURL:      &p.VideoURL,
	}
}

// Normalize truncates capped text, turns blank optionals into nil, trims and dedupes the link
// list and clears every field the kind does not carry. Truncation never rejects.
func (p *Payload) Normalize() {
	s := For(p.Kind)
	if s == nil {
		return
	}
	p.Title = truncate(strings.TrimSpace(p.Title), fieldCap(s, FieldTitle))

	for name, ptr := range p.textFields() {
		if !s.Has(name) || *ptr == nil {
			*ptr = nil
			continue
		}
		v := **ptr
		if name == FieldVideoURL {
			v = strings.TrimSpace(v)
		}
		if strings.TrimSpace(v) == "" {
			*ptr = nil
			continue
		}
		v = truncate(v, fieldCap(s, name))
		*ptr = &v
	}

	if p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) == "" {
		p.ImageURL = nil
	}
	if !s.Has(FieldClassLevel) {
		p.ClassLevel = nil
	}
	if s.Has(FieldExternalLinks) {
		// Validate rejects more than MaxCount links instead of dropping them.
		p.ExternalLinks = NormalizeLinks(p.ExternalLinks, LinkPolicy{Dedupe: s.Links.Dedupe})
	} else {
		p.ExternalLinks = nil
	}
	if !s.Has(FieldFiles) || len(p.Files) == 0 {
		p.Files = nil
	}
}

// Validate checks p against its kind's schema. Call Normalize first.
func (p *Payload) Validate() error {
	if For(p.Kind) == nil {
		ve := &ValidationError{Kind: p.Kind}
		ve.Add("kind", i18n.TagRequired, "")
		return ve
	}
	if err := i18n.Validate.Struct(p); err != nil {
		return fromValidator(p.Kind, err)
	}
	return nil
}

func payloadStructLevel(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(Payload)
	if !ok {
		return
	}
	s := For(p.Kind)
	if s == nil {
		return
	}
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		switch f.Name {
		case FieldTitle:
			if strings.TrimSpace(p.Title) == "" {
				sl.ReportError(p.Title, FieldTitle, "Title", i18n.TagRequired, "")
			}
		case FieldClassLevel:
			if p.ClassLevel == nil {
				sl.ReportError(p.ClassLevel, FieldClassLevel, "ClassLevel", i18n.TagRequired, "")
			}
		default:
			if ptr, ok := p.textFields()[f.Name]; ok && (*ptr == nil || strings.TrimSpace(**ptr) == "") {
				sl.ReportError(*ptr, f.Name, f.Name, i18n.TagRequired, "")
			}
		}
	}
	if p.ClassLevel != nil && !s.ValidGrade(*p.ClassLevel) {
		sl.ReportError(*p.ClassLevel, FieldClassLevel, "ClassLevel", i18n.TagGrade, s.GradeRange())
	}
	if s.Links.MaxCount > 0 && len(p.ExternalLinks) > s.Links.MaxCount {
		sl.ReportError(p.ExternalLinks, FieldExternalLinks, "ExternalLinks", i18n.TagLinkLimit, strconv.Itoa(s.Links.MaxCount))
	}
	if s.Links.Dedupe && hasDuplicate(p.ExternalLinks) {
		sl.ReportError(p.ExternalLinks, FieldExternalLinks, "ExternalLinks", i18n.TagLinkUnique, "")
	}
}

// NormalizeLinks trims entries, drops blanks, removes verbatim duplicates when the policy
// dedupes and slices to MaxCount.
func NormalizeLinks(in []string, policy LinkPolicy) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		if policy.Dedupe {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
		}
		out = append(out, l)
	}
	if policy.MaxCount > 0 && len(out) > policy.MaxCount {
		out = out[:policy.MaxCount]
	}
	return out
}

// Truncate cuts s to at most max characters (runes). max <= 0 leaves s untouched.
func Truncate(s string, max int) string { return truncate(s, max) }

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func fieldCap(s *Schema, name string) int {
	if f, ok := s.Field(name); ok {
		return f.MaxLen
	}
	return 0
}

func hasDuplicate(list []string) bool {
	seen := make(map[string]struct{}, len(list))
	for _, l := range list {
		if _, ok := seen[l]; ok {
			return true
		}
		seen[l] = struct{}{}
	}
	return false
}
