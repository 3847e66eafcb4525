package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/faithfulcoronel/stewardtrack-sub004/errors"
)

func TestValidator_PassingRulesProduceNoError(t *testing.T) {
	v := New().
		Required("entity", "members").
		RequiredUUID("id", uuid.NewString()).
		MaxLength("note", "short", 32).
		Min("retries", 3, 0).
		OneOf("type", "create", []string{"create", "update", "delete"}).
		Custom(true, "payload", "must not be empty")

	if v.HasErrors() {
		t.Fatalf("HasErrors() = true, errors %v", v.Errors())
	}
	if err := v.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"value present", "members", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New().Required("entity", tt.value)
			if got := v.HasErrors(); got != tt.want {
				t.Fatalf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidator_RequiredUUID(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"valid", uuid.NewString(), ""},
		{"empty", "", "is required"},
		{"malformed", "not-a-uuid", "must be a valid UUID"},
		{"nil uuid", uuid.Nil.String(), "must not be the nil UUID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New().RequiredUUID("id", tt.value)
			if tt.want == "" {
				if v.HasErrors() {
					t.Fatalf("HasErrors() = true, errors %v", v.Errors())
				}
				return
			}
			fields := v.Errors()
			if len(fields) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1", len(fields))
			}
			if fields[0].Message != tt.want {
				t.Fatalf("message = %q, want %q", fields[0].Message, tt.want)
			}
		})
	}
}

func TestValidator_MaxLength(t *testing.T) {
	v := New().MaxLength("note", strings.Repeat("x", 11), 10)
	fields := v.Errors()
	if len(fields) != 1 {
		t.Fatalf("len(Errors()) = %d, want 1", len(fields))
	}
	if got, want := fields[0].Message, "must be 10 characters or less"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestValidator_Min(t *testing.T) {
	if v := New().Min("retries", 0, 0); v.HasErrors() {
		t.Fatalf("Min at floor: HasErrors() = true, errors %v", v.Errors())
	}
	v := New().Min("retries", -1, 0)
	if got, want := v.Errors()[0].Message, "must be at least 0"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"create", "update", "delete"}

	if v := New().OneOf("type", "update", allowed); v.HasErrors() {
		t.Fatalf("allowed value: HasErrors() = true, errors %v", v.Errors())
	}
	if v := New().OneOf("type", "", allowed); v.HasErrors() {
		t.Fatal("empty value should pass, pair with Required to forbid it")
	}

	v := New().OneOf("type", "upsert", allowed)
	if got, want := v.Errors()[0].Message, "must be one of: create, update, delete"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestValidator_Custom(t *testing.T) {
	v := New().Custom(false, "payload", "must not be empty")
	fields := v.Errors()
	if len(fields) != 1 {
		t.Fatalf("len(Errors()) = %d, want 1", len(fields))
	}
	if got, want := fields[0].Field, "payload"; got != want {
		t.Fatalf("field = %q, want %q", got, want)
	}
	if got, want := fields[0].Message, "must not be empty"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestValidator_AddError(t *testing.T) {
	v := New()
	v.AddError("conflict_strategy", "unknown strategy")
	if !v.HasErrors() {
		t.Fatal("HasErrors() = false after AddError")
	}
	if got, want := v.Errors()[0].Message, "unknown strategy"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestValidator_ValidateAggregatesFailures(t *testing.T) {
	err := New().
		Required("entity", "").
		RequiredUUID("id", "nope").
		Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if err.Code != errors.ErrCodeInvalidInput {
		t.Fatalf("Code = %q, want %q", err.Code, errors.ErrCodeInvalidInput)
	}
	if got, want := err.Message, "entity: is required; id: must be a valid UUID"; got != want {
		t.Fatalf("Message = %q, want %q", got, want)
	}

	fields, ok := err.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("Details[fields] has type %T, want []FieldError", err.Details["fields"])
	}
	if len(fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(fields))
	}
	if fields[1].Field != "id" {
		t.Fatalf("fields[1].Field = %q, want %q", fields[1].Field, "id")
	}
}

func TestValidateStruct(t *testing.T) {
	type endpoint struct {
		BaseURL string `json:"baseUrl" validate:"required,url"`
		Retries int    `json:"retries" validate:"min=0,max=10"`
	}

	if err := ValidateStruct(endpoint{BaseURL: "https://api.stewardtrack.app", Retries: 3}); err != nil {
		t.Fatalf("ValidateStruct(valid) = %v, want nil", err)
	}

	err := ValidateStruct(endpoint{BaseURL: "", Retries: 99})
	if err == nil {
		t.Fatal("ValidateStruct(invalid) = nil, want error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("error has type %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Fatalf("Code = %q, want %q", appErr.Code, errors.ErrCodeInvalidInput)
	}

	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("Details[fields] has type %T, want []FieldError", appErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(fields))
	}
	if got, want := fields[0].Field, "base_url"; got != want {
		t.Fatalf("fields[0].Field = %q, want %q", got, want)
	}
	if got, want := fields[0].Message, "is required"; got != want {
		t.Fatalf("fields[0].Message = %q, want %q", got, want)
	}
	if got, want := fields[1].Message, "must be at most 10"; got != want {
		t.Fatalf("fields[1].Message = %q, want %q", got, want)
	}
}

func TestValidateStruct_FieldNameFallsBackToStructName(t *testing.T) {
	type creds struct {
		APIKey string `validate:"required"`
	}

	err := ValidateStruct(creds{})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("error has type %T, want *errors.AppError", err)
	}
	fields := appErr.Details["fields"].([]FieldError)
	if got, want := fields[0].Field, "a_p_i_key"; got != want {
		t.Fatalf("field = %q, want %q", got, want)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Retries", "retries"},
		{"baseUrl", "base_url"},
		{"ConflictStrategy", "conflict_strategy"},
		{"BaseURL", "base_u_r_l"},
		{"already_snake", "already_snake"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
