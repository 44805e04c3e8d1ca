package i18n

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/kk"
	ru_locale "github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

var (
	Validate *validator.Validate

	translators = map[Lang]ut.Translator{}
)

// Custom tags shared by DTO and content validation.
const (
	TagNotBlank   = "notblank"
	TagGrade      = "grade"
	TagInteger    = "integer"
	TagLinkLimit  = "link_limit"
	TagLinkUnique = "link_unique"
	TagRequired   = "required"
	TagURL        = "url"
)

// Per-language texts. {0} is the field, {1} the tag param; tags in paramOnly take the param
// as {0}.
var customTexts = map[Lang]map[string]string{
	RU: {
		TagNotBlank:   "{0} не может быть пустым",
		TagRequired:   "{0} обязательное поле",
		TagGrade:      "{0} должен быть одним из классов {1}",
		TagInteger:    "{0} должен быть целым числом",
		TagLinkLimit:  "Максимум {0} внешних ссылок",
		TagLinkUnique: "Такая ссылка уже добавлена",
		TagURL:        "{0} должен быть корректным URL",
	},
	KZ: {
		TagNotBlank:   "{0} бос болмауы керек",
		TagRequired:   "{0} міндетті өріс",
		TagGrade:      "{0} {1} сыныптарының бірі болуы керек",
		TagInteger:    "{0} бүтін сан болуы керек",
		TagLinkLimit:  "Ең көбі {0} сыртқы сілтеме",
		TagLinkUnique: "Бұл сілтеме бұрын қосылған",
		TagURL:        "{0} дұрыс URL болуы керек",
		"email":       "{0} дұрыс email болуы керек",
		"min":         "{0} тым қысқа (кемінде {1})",
		"max":         "{0} тым ұзын (ең көбі {1})",
		"oneof":       "{0} мәні {1} тізімінде болуы керек",
		"eqfield":     "{0} {1} өрісімен сәйкес болуы керек",
	},
}

var paramOnly = map[string]bool{TagLinkLimit: true}

func translationArgs(tag, field, param string) []string {
	if paramOnly[tag] {
		return []string{param}
	}
	return []string{field, param}
}

func init() {
	Validate = validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := registerTranslations(); err != nil {
		panic("i18n: " + err.Error())
	}
}

func registerTranslations() error {
	if err := Validate.RegisterValidation(TagNotBlank, notBlankValidation); err != nil {
		return err
	}

	ruLoc := ru_locale.New()
	uni := ut.New(ruLoc, ruLoc, kk.New())
	ruTrans, _ := uni.GetTranslator("ru")
	kkTrans, _ := uni.GetTranslator("kk")
	if err := ru_translations.RegisterDefaultTranslations(Validate, ruTrans); err != nil {
		return err
	}
	translators[RU] = ruTrans
	translators[KZ] = kkTrans

	for lang, texts := range customTexts {
		for tag, text := range texts {
			if err := registerCustomTranslation(translators[lang], tag, text); err != nil {
				return fmt.Errorf("%s %s: %w", lang, tag, err)
			}
		}
	}
	return nil
}

// registerCustomTranslation overrides the message for tag in one translator.
func registerCustomTranslation(trans ut.Translator, tag, text string) error {
	return Validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(tag, translationArgs(tag, fe.Field(), fe.Param())...)
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func Translator(lang Lang) ut.Translator {
	if t, ok := translators[lang]; ok {
		return t
	}
	return translators[RU]
}

// TranslateTag renders a custom tag message without a validator.FieldError.
func TranslateTag(lang Lang, tag, field, param string) string {
	args := translationArgs(tag, field, param)
	s, err := Translator(lang).T(tag, args...)
	if err != nil || s == "" {
		if s, err = Translator(RU).T(tag, args...); err != nil {
			return field + ": " + tag
		}
	}
	return s
}

// TranslateErrors maps validator errors to {json field: message}. Non-validation errors
// come back as nil.
func TranslateErrors(err error, lang Lang) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	trans := Translator(lang)
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Translate(trans)
	}
	return out
}
