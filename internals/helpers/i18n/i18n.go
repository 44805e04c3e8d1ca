package i18n

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Lang string

const (
	RU Lang = "ru"
	KZ Lang = "kz"

	// Default matches the portal UI, which opens in Kazakh.
	Default = KZ
)

var dictionaries = map[Lang]map[Key]string{
	RU: ru,
	KZ: kz,
}

// ParseLang accepts "ru", "kz" and the ISO code "kk" (plus region suffixes).
func ParseLang(s string) (Lang, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	switch s {
	case "ru":
		return RU, true
	case "kz", "kk":
		return KZ, true
	}
	return "", false
}

// T returns the message for key. A key missing from lang falls back to Russian;
// AllKeys coverage is enforced by tests so the fallback is never hit in practice.
func T(lang Lang, key Key, args ...interface{}) string {
	msg, ok := dictionaries[lang][key]
	if !ok {
		msg = ru[key]
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Dictionary returns a copy of the dictionary keyed by the dotted key names.
func Dictionary(lang Lang) map[string]string {
	src := dictionaries[lang]
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[string(k)] = v
	}
	return out
}

// Missing lists keys absent (or empty) in lang.
func Missing(lang Lang) []Key {
	var out []Key
	for _, k := range AllKeys {
		if strings.TrimSpace(dictionaries[lang][k]) == "" {
			out = append(out, k)
		}
	}
	return out
}

// FromRequest resolves the request language: ?lang, X-Language, Accept-Language, Default.
func FromRequest(c *fiber.Ctx) Lang {
	if l, ok := ParseLang(c.Query("lang")); ok {
		return l
	}
	if l, ok := ParseLang(c.Get("X-Language")); ok {
		return l
	}
	for _, part := range strings.Split(c.Get(fiber.HeaderAcceptLanguage), ",") {
		tag := strings.SplitN(part, ";", 2)[0]
		if l, ok := ParseLang(tag); ok {
			return l
		}
	}
	return Default
}
