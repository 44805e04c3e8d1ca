package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"biolab_backend/internals/helpers/i18n"
)

// Violation is one failed rule on one field.
type Violation struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned before any storage or database call when a payload breaks its schema.
type ValidationError struct {
	Kind       Kind
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+":"+v.Tag)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Kind, strings.Join(parts, ", "))
}

func (e *ValidationError) Add(field, tag, param string) {
	e.Violations = append(e.Violations, Violation{Field: field, Tag: tag, Param: param})
}

func (e *ValidationError) Has(field, tag string) bool {
	for _, v := range e.Violations {
		if v.Field == field && v.Tag == tag {
			return true
		}
	}
	return false
}

// Messages renders {field: message} in lang.
func (e *ValidationError) Messages(lang i18n.Lang) map[string]string {
	out := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		if _, taken := out[v.Field]; taken {
			continue
		}
		out[v.Field] = i18n.TranslateTag(lang, v.Tag, v.Field, v.Param)
	}
	return out
}

// OrNil returns nil when no violation was collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func fromValidator(kind Kind, err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{Kind: kind}
	for _, fe := range ves {
		out.Add(fe.Field(), fe.Tag(), fe.Param())
	}
	return out
}
