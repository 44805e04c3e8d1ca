package schema

import "biolab_backend/internals/helpers/i18n"

// FieldType is the semantic type of a content field.
type FieldType string

const (
	ShortText      FieldType = "short_text"
	LongText       FieldType = "long_text"
	Grade          FieldType = "grade"
	URL            FieldType = "url"
	URLList        FieldType = "url_list"
	AttachmentList FieldType = "attachment_list"
)

// Column names shared by every content table.
const (
	FieldTitle         = "title"
	FieldTitleKZ       = "title_kz"
	FieldDescription   = "description"
	FieldDescriptionKZ = "description_kz"
	FieldTheory        = "theory"
	FieldTheoryKZ      = "theory_kz"
	FieldProcess       = "process"
	FieldProcessKZ     = "process_kz"
	FieldClassLevel    = "class_level"
	FieldImageURL      = "image_url"
	FieldVideoURL      = "video_url"
	FieldExternalLinks = "external_links"
	FieldFiles         = "files"
)

// Text caps in characters.
const (
	MaxTitle       = 500
	MaxDescription = 5000
	MaxLongText    = 50000
	MaxURL         = 2048
)

// Field describes one column of a content kind.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	MaxLen   int       `json:"max_len,omitempty"`
	Label    i18n.Key  `json:"label"`
}

// Text fields are the ones the form holds as plain strings and truncates.
func (f Field) Text() bool {
	return f.Type == ShortText || f.Type == LongText || f.Type == URL
}

func title(required bool) Field {
	return Field{Name: FieldTitle, Type: ShortText, Required: required, MaxLen: MaxTitle, Label: i18n.CommonTitle}
}

func description(required bool) Field {
	return Field{Name: FieldDescription, Type: LongText, Required: required, MaxLen: MaxDescription, Label: i18n.CommonDescription}
}

func theory() Field {
	return Field{Name: FieldTheory, Type: LongText, MaxLen: MaxLongText, Label: i18n.LabsTheory}
}

func process() Field {
	return Field{Name: FieldProcess, Type: LongText, MaxLen: MaxLongText, Label: i18n.LabsProcess}
}

func classLevel(required bool) Field {
	return Field{Name: FieldClassLevel, Type: Grade, Required: required, Label: i18n.CommonClass}
}

func imageURL() Field {
	return Field{Name: FieldImageURL, Type: AttachmentList, Label: i18n.CommonImage}
}

func videoURL() Field {
	return Field{Name: FieldVideoURL, Type: URL, MaxLen: MaxURL, Label: i18n.CommonVideo}
}

func externalLinks() Field {
	return Field{Name: FieldExternalLinks, Type: URLList, Label: i18n.CommonExternalLinks}
}

func files() Field {
	return Field{Name: FieldFiles, Type: AttachmentList, Label: i18n.CommonFiles}
}

// kazakh returns the *_kz twin of a Russian text field.
func kazakh(f Field) Field {
	f.Name += "_kz"
	f.Required = false
	return f
}
