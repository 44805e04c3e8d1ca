package schema

import (
	"strconv"
	"strings"

	"biolab_backend/internals/constants"
)

const (
	MB = 1 << 20

	MaxCardImageSize  = 10 * MB
	MaxDownloadSize   = 30 * MB
	MaxDownloads      = 10
	DefaultLinksLimit = 10
)

var (
	// SchoolGrades is the single grade enumeration for content aimed at grades 7 to 11.
	SchoolGrades = []int{7, 8, 9, 10, 11}
	// StudentGrades extends SchoolGrades with the graduating year.
	StudentGrades = []int{7, 8, 9, 10, 11, 12}
)

// LinkPolicy governs the external link list. MaxCount 0 means unlimited.
type LinkPolicy struct {
	Dedupe   bool `json:"dedupe"`
	MaxCount int  `json:"max_count"`
}

// AttachmentPolicy governs one attachment list of a form.
type AttachmentPolicy struct {
	MaxFiles     int      `json:"max_files"`
	MaxSizeBytes int64    `json:"max_size_bytes"`
	Accept       []string `json:"accept,omitempty"`
}

// Allows reports whether a file of contentType is accepted. An empty Accept list allows anything.
func (p AttachmentPolicy) Allows(contentType string) bool {
	if len(p.Accept) == 0 {
		return true
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, a := range p.Accept {
		if a == ct {
			return true
		}
	}
	return false
}

// Schema is the canonical definition of one content kind.
type Schema struct {
	Kind       Kind             `json:"kind"`
	Version    int              `json:"version"`
	Fields     []Field          `json:"fields"`
	Grades     []int            `json:"grades"`
	Links      LinkPolicy       `json:"links"`
	CardImages AttachmentPolicy `json:"card_images"`
	Downloads  AttachmentPolicy `json:"downloads"`
}

func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s *Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

func (s *Schema) ValidGrade(level int) bool {
	for _, g := range s.Grades {
		if g == level {
			return true
		}
	}
	return false
}

// GradeRange renders the enumeration as "7-11" for messages.
func (s *Schema) GradeRange() string {
	if len(s.Grades) == 0 {
		return ""
	}
	return strconv.Itoa(s.Grades[0]) + "-" + strconv.Itoa(s.Grades[len(s.Grades)-1])
}

var cardImages = func(max int) AttachmentPolicy {
	return AttachmentPolicy{MaxFiles: max, MaxSizeBytes: MaxCardImageSize, Accept: constants.CardImageTypes}
}

var downloads = AttachmentPolicy{MaxFiles: MaxDownloads, MaxSizeBytes: MaxDownloadSize}

var registry = map[Kind]*Schema{
	KindLab: {
		Kind:    KindLab,
		Version: 1,
		Fields: []Field{
			title(true), kazakh(title(false)),
			description(true), kazakh(description(false)),
			theory(), kazakh(theory()),
			process(), kazakh(process()),
			classLevel(true), imageURL(), videoURL(), externalLinks(), files(),
		},
		Grades:     SchoolGrades,
		Links:      LinkPolicy{Dedupe: true, MaxCount: DefaultLinksLimit},
		CardImages: cardImages(3),
		Downloads:  downloads,
	},
	KindSteam: {
		Kind:    KindSteam,
		Version: 1,
		Fields: []Field{
			title(true), description(false), theory(), process(),
			classLevel(true), imageURL(), videoURL(), externalLinks(), files(),
		},
		Grades:     SchoolGrades,
		Links:      LinkPolicy{Dedupe: true, MaxCount: DefaultLinksLimit},
		CardImages: cardImages(3),
		Downloads:  downloads,
	},
	KindTeacher: {
		Kind:    KindTeacher,
		Version: 1,
		Fields: []Field{
			title(true), description(false), theory(), process(),
			classLevel(false), imageURL(), videoURL(), externalLinks(), files(),
		},
		Grades:     SchoolGrades,
		Links:      LinkPolicy{Dedupe: true, MaxCount: DefaultLinksLimit},
		CardImages: cardImages(5),
		Downloads:  downloads,
	},
	KindStudent: {
		Kind:    KindStudent,
		Version: 1,
		Fields: []Field{
			title(true), description(false), classLevel(true), imageURL(), files(),
		},
		Grades:     StudentGrades,
		CardImages: cardImages(1),
		Downloads:  downloads,
	},
}

// For returns the schema of kind, nil for an unknown kind.
func For(kind Kind) *Schema {
	return registry[kind]
}
