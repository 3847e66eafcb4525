// Package validation provides input validation for bridge configuration
// and queued mutations.
//
// It supports both struct tag validation (using the validator library)
// and programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type Endpoint struct {
//	    BaseURL string `validate:"required,url"`
//	}
//	err := validation.ValidateStruct(ep)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("entity", entity).OneOf("type", mutationType, []string{"create", "update", "delete"})
//	err := v.Validate()
package validation
