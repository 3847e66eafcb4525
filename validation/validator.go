package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/faithfulcoronel/stewardtrack-sub004/errors"
)

// FieldError pairs a field name with what is wrong with it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors across chained rules and folds
// them into a single invalid-input AppError. Use New to create one.
type Validator struct {
	fields []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) fail(field, format string, args ...any) *Validator {
	v.fields = append(v.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return v
}

// AddError records a failure directly, outside any rule.
func (v *Validator) AddError(field, message string) {
	v.fail(field, "%s", message)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.fields) > 0
}

// Errors returns the accumulated field errors in rule order.
func (v *Validator) Errors() []FieldError {
	return v.fields
}

// Validate returns nil when every rule passed, otherwise one AppError
// carrying all accumulated field errors.
func (v *Validator) Validate() *errors.AppError {
	if len(v.fields) == 0 {
		return nil
	}
	return invalidInput(v.fields)
}

// Required fails when value is empty or whitespace.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "is required")
	}
	return v
}

// RequiredUUID fails unless value parses as a non-nil UUID.
func (v *Validator) RequiredUUID(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return v.fail(field, "must be a valid UUID")
	}
	if id == uuid.Nil {
		return v.fail(field, "must not be the nil UUID")
	}
	return v
}

// MaxLength fails when value is longer than limit bytes.
func (v *Validator) MaxLength(field, value string, limit int) *Validator {
	if len(value) > limit {
		return v.fail(field, "must be %d characters or less", limit)
	}
	return v
}

// Min fails when value is below floor.
func (v *Validator) Min(field string, value, floor int) *Validator {
	if value < floor {
		return v.fail(field, "must be at least %d", floor)
	}
	return v
}

// OneOf fails when a non-empty value is not in allowed. Combine with
// Required when the field is mandatory.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	return v.fail(field, "must be one of: %s", strings.Join(allowed, ", "))
}

// Custom fails with message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		return v.fail(field, "%s", message)
	}
	return v
}

// invalidInput builds the invalid-input AppError shared by Validate
// and ValidateStruct: the message joins every failure, and the
// structured list rides along under the "fields" detail key.
func invalidInput(fields []FieldError) *errors.AppError {
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return errors.New(errors.ErrCodeInvalidInput, strings.Join(msgs, "; ")).
		WithDetails(map[string]any{"fields": fields})
}
