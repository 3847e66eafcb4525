package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connectivity errors (retryable)
const (
	// ErrCodeOffline indicates the device has no connection; the
	// operation is queued or refused until connectivity returns.
	ErrCodeOffline ErrorCode = "DEVICE_OFFLINE"
	// ErrCodeConnectionFailed indicates a failed connection to the sync endpoint.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the sync endpoint is throttling the client.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Storage errors
const (
	// ErrCodeStorage indicates the secure storage backend failed.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
	// ErrCodeNotFound indicates the requested entry was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeSerialization indicates a value could not be encoded or decoded.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"
	// ErrCodeMigrationFailed indicates the legacy store migration failed.
	ErrCodeMigrationFailed ErrorCode = "MIGRATION_FAILED"
	// ErrCodeEncryption indicates a value could not be encrypted or decrypted.
	ErrCodeEncryption ErrorCode = "ENCRYPTION_ERROR"
)

// Sync errors
const (
	// ErrCodeSyncFailed indicates a sync pass could not complete.
	ErrCodeSyncFailed ErrorCode = "SYNC_FAILED"
	// ErrCodeRetriesExhausted indicates a mutation exceeded its retry budget.
	ErrCodeRetriesExhausted ErrorCode = "RETRIES_EXHAUSTED"
	// ErrCodeConflict indicates the server rejected a mutation as conflicting.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Platform errors
const (
	// ErrCodePermissionDenied indicates the user or OS denied a capability.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeUnsupportedPlatform indicates the feature is unavailable on this platform.
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
)

// General errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeOffline:          true,
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeRateLimited:      true,
	ErrCodeStorage:          true,
	ErrCodeSyncFailed:       true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
