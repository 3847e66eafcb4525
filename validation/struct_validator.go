package validation

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/faithfulcoronel/stewardtrack-sub004/errors"
)

var (
	structValidate *validator.Validate
	structOnce     sync.Once
)

// structValidator returns the shared instance, configured to report
// fields by their json names.
func structValidator() *validator.Validate {
	structOnce.Do(func() {
		structValidate = validator.New(validator.WithRequiredStructEnabled())
		structValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if tag, _, _ := strings.Cut(fld.Tag.Get("json"), ","); tag != "" && tag != "-" {
				return tag
			}
			return fld.Name
		})
	})
	return structValidate
}

// ValidateStruct enforces `validate` struct tags, e.g.
// `validate:"required,url"`. Failures come back as a single
// invalid-input AppError in the same shape Validator.Validate
// produces, with field names snake_cased.
func ValidateStruct(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "validation failed")
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, FieldError{
			Field:   toSnakeCase(e.Field()),
			Message: ruleMessage(e),
		})
	}
	return invalidInput(fields)
}

// ruleMessage renders one tag failure as a human-readable message.
func ruleMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	}
	return "is invalid"
}

// toSnakeCase lowercases a field name, inserting an underscore before
// every upper-case letter after the first.
func toSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
