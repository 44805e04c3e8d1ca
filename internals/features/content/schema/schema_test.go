package schema

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"labs":               KindLab,
		"lab":                KindLab,
		"steam":              KindSteam,
		"teachers":           KindTeacher,
		"teachers_materials": KindTeacher,
		"Students":           KindStudent,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("donations"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestEveryKindHasSchema(t *testing.T) {
	for _, k := range Kinds {
		s := For(k)
		if s == nil {
			t.Fatalf("no schema for %s", k)
		}
		if !s.Has(FieldTitle) || !s.Has(FieldClassLevel) {
			t.Fatalf("%s schema lacks title or class_level", k)
		}
		if k.Table() == "" || k.Folder() == "" {
			t.Fatalf("%s has no table or folder", k)
		}
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	in := strings.Repeat("ж", 51000)
	got := Truncate(in, 50000)
	if n := len([]rune(got)); n != 50000 {
		t.Fatalf("len = %d, want 50000", n)
	}
	if Truncate("short", 500) != "short" {
		t.Fatalf("short strings must be untouched")
	}
}

func TestNormalizeTheoryTruncated(t *testing.T) {
	p := Payload{
		Kind:        KindLab,
		Title:       "Клетка",
		Description: strPtr("Строение клетки"),
		Theory:      strPtr(strings.Repeat("a", 51000)),
		ClassLevel:  intPtr(8),
	}
	p.Normalize()
	if len(*p.Theory) != 50000 {
		t.Fatalf("theory len = %d, want 50000", len(*p.Theory))
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestNormalizeStudentClearsForeignFields(t *testing.T) {
	p := Payload{
		Kind:          KindStudent,
		Title:         "Тест",
		Theory:        strPtr("theory"),
		Process:       strPtr("process"),
		VideoURL:      strPtr("https://youtu.be/x"),
		ExternalLinks: []string{"https://a.kz"},
		ClassLevel:    intPtr(12),
	}
	p.Normalize()
	if p.Theory != nil || p.Process != nil || p.VideoURL != nil || p.ExternalLinks != nil {
		t.Fatalf("student payload kept foreign fields: %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("grade 12 must be valid for students: %v", err)
	}
}

func TestNormalizeBlankOptionalsBecomeNil(t *testing.T) {
	p := Payload{Kind: KindSteam, Title: " STEAM ", Description: strPtr("   "), VideoURL: strPtr("  "), ImageURL: strPtr(""), ClassLevel: intPtr(7)}
	p.Normalize()
	if p.Title != "STEAM" {
		t.Fatalf("title not trimmed: %q", p.Title)
	}
	if p.Description != nil || p.VideoURL != nil || p.ImageURL != nil {
		t.Fatalf("blank optionals should be nil: %+v", p)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		p     Payload
		field string
		tag   string
	}{
		{"missing title", Payload{Kind: KindLab, Description: strPtr("d"), ClassLevel: intPtr(7)}, FieldTitle, "required"},
		{"missing class level", Payload{Kind: KindLab, Title: "t", Description: strPtr("d")}, FieldClassLevel, "required"},
		{"lab grade 12", Payload{Kind: KindLab, Title: "t", Description: strPtr("d"), ClassLevel: intPtr(12)}, FieldClassLevel, "grade"},
		{"missing lab description", Payload{Kind: KindLab, Title: "t", ClassLevel: intPtr(9)}, FieldDescription, "required"},
		{"bad video url", Payload{Kind: KindSteam, Title: "t", ClassLevel: intPtr(9), VideoURL: strPtr("not a url")}, FieldVideoURL, "url"},
		{"bad link", Payload{Kind: KindSteam, Title: "t", ClassLevel: intPtr(9), ExternalLinks: []string{"nope"}}, "external_links[0]", "url"},
		{"too many links", Payload{Kind: KindSteam, Title: "t", ClassLevel: intPtr(9), ExternalLinks: manyLinks(11)}, FieldExternalLinks, "link_limit"},
		{"duplicate links", Payload{Kind: KindSteam, Title: "t", ClassLevel: intPtr(9), ExternalLinks: []string{"https://a.kz", "https://a.kz"}}, FieldExternalLinks, "link_unique"},
	}
	for _, tc := range cases {
		err := tc.p.Validate()
		ve, ok := AsValidationError(err)
		if !ok {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if !ve.Has(tc.field, tc.tag) {
			t.Fatalf("%s: violations %+v lack %s/%s", tc.name, ve.Violations, tc.field, tc.tag)
		}
	}
}

func TestTeacherClassLevelOptional(t *testing.T) {
	p := Payload{Kind: KindTeacher, Title: "Методичка"}
	p.Normalize()
	if err := p.Validate(); err != nil {
		t.Fatalf("teacher material without class level should be valid: %v", err)
	}
}

func TestNormalizeLinks(t *testing.T) {
	got := NormalizeLinks([]string{" https://a.kz ", "", "https://a.kz", "https://b.kz"}, LinkPolicy{Dedupe: true, MaxCount: 10})
	if len(got) != 2 || got[0] != "https://a.kz" || got[1] != "https://b.kz" {
		t.Fatalf("NormalizeLinks = %v", got)
	}
	got = NormalizeLinks(manyLinks(12), LinkPolicy{MaxCount: 10})
	if len(got) != 10 {
		t.Fatalf("cap not applied: %d", len(got))
	}
	if NormalizeLinks([]string{" ", ""}, LinkPolicy{}) != nil {
		t.Fatalf("blank-only list should normalize to nil")
	}
}

func TestMessagesLocalized(t *testing.T) {
	ve := &ValidationError{Kind: KindLab}
	ve.Add(FieldExternalLinks, "link_limit", "10")
	if got := ve.Messages("ru")[FieldExternalLinks]; got != "Максимум 10 внешних ссылок" {
		t.Fatalf("ru message = %q", got)
	}
	if got := ve.Messages("kz")[FieldExternalLinks]; got != "Ең көбі 10 сыртқы сілтеме" {
		t.Fatalf("kz message = %q", got)
	}
}

func TestNormalizeKeepsExtraLinksForValidation(t *testing.T) {
	p := Payload{Kind: KindSteam, Title: "Робот", ClassLevel: intPtr(9), ExternalLinks: append(manyLinks(11), "https://example.kz/a")}
	p.Normalize()
	if len(p.ExternalLinks) != 11 {
		t.Fatalf("links after Normalize = %d", len(p.ExternalLinks))
	}
	ve, ok := AsValidationError(p.Validate())
	if !ok || !ve.Has(FieldExternalLinks, "link_limit") {
		t.Fatalf("want link_limit, got %v", p.Validate())
	}
	if got := ve.Messages("ru")[FieldExternalLinks]; got != "Максимум 10 внешних ссылок" {
		t.Fatalf("message = %q", got)
	}
}

func TestAttachmentPolicyAllows(t *testing.T) {
	p := For(KindLab).CardImages
	if !p.Allows("image/png") || !p.Allows("image/jpeg; charset=binary") {
		t.Fatalf("png/jpeg should be accepted")
	}
	if p.Allows("application/pdf") {
		t.Fatalf("pdf is not a card image")
	}
	if !For(KindLab).Downloads.Allows("application/pdf") {
		t.Fatalf("downloads accept anything")
	}
}

func manyLinks(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "https://example.kz/" + string(rune('a'+i))
	}
	return out
}
