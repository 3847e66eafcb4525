// Package errors provides unified error handling for the stewardtrack
// bridge. It implements structured error types with machine-readable
// codes and retryable detection.
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified bridge error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the upstream status code when the error originated
	// from the sync transport; zero otherwise.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithStatus sets the upstream HTTP status and returns the receiver.
func (e *AppError) WithStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable reports whether the error carries a retryable code.
// Non-AppError values are treated as retryable transient failures.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return err != nil
}

// --- Common Error Constructors ---

// Offline creates a new AppError for an operation refused because the
// device has no connection.
func Offline() *AppError {
	return &AppError{
		Code: ErrCodeOffline, Message: "Device is offline. The operation will be retried when connectivity returns.",
		Retryable: true,
	}
}

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is reachable.", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long. Please try again.",
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		Retryable: true,
	}
}

// StorageFailed creates a new AppError for a secure storage failure.
func StorageFailed(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStorage, Message: fmt.Sprintf("Secure storage operation %q failed.", op),
		Retryable: true,
		Details:   map[string]any{"operation": op}, Cause: cause,
	}
}

// NotFound creates a new AppError for an entry that was not found.
func NotFound(resource, key string) *AppError {
	details := map[string]any{"resource": resource}
	if key != "" {
		details["key"] = key
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Retryable: false, Details: details,
	}
}

// Serialization creates a new AppError for a value that could not be
// encoded or decoded.
func Serialization(key string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSerialization, Message: fmt.Sprintf("Stored value for %q could not be decoded.", key),
		Retryable: false,
		Details:   map[string]any{"key": key}, Cause: cause,
	}
}

// MigrationFailed creates a new AppError for a failed legacy store migration.
func MigrationFailed(sourceKey string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMigrationFailed, Message: "Legacy storage migration failed.",
		Retryable: false,
		Details:   map[string]any{"source_key": sourceKey}, Cause: cause,
	}
}

// EncryptionFailed creates a new AppError for a value that could not be
// encrypted or decrypted.
func EncryptionFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeEncryption, Message: "Stored value could not be encrypted or decrypted.",
		Retryable: false, Cause: cause,
	}
}

// SyncFailed creates a new AppError for a sync pass that could not complete.
func SyncFailed(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSyncFailed, Message: fmt.Sprintf("Sync failed: %s", reason),
		Retryable: true, Cause: cause,
	}
}

// RetriesExhausted creates a new AppError for a mutation dropped after
// exceeding its retry budget.
func RetriesExhausted(mutationID string, attempts int) *AppError {
	return &AppError{
		Code: ErrCodeRetriesExhausted, Message: fmt.Sprintf("Mutation %s failed after %d attempts.", mutationID, attempts),
		Retryable: false,
		Details:   map[string]any{"mutation_id": mutationID, "attempts": attempts},
	}
}

// Conflict creates a new AppError for a mutation the server rejected as
// conflicting.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		Retryable: false,
	}
}

// PermissionDenied creates a new AppError for a capability the user or
// OS refused.
func PermissionDenied(capability string) *AppError {
	return &AppError{
		Code: ErrCodePermissionDenied, Message: fmt.Sprintf("Permission for %s was denied.", capability),
		Retryable: false,
		Details:   map[string]any{"capability": capability},
	}
}

// UnsupportedPlatform creates a new AppError for a feature unavailable
// on the current platform.
func UnsupportedPlatform(feature, platform string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedPlatform, Message: fmt.Sprintf("%s is not supported on %s.", feature, platform),
		Retryable: false,
		Details:   map[string]any{"feature": feature, "platform": platform},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}
