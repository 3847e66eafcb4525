// Package errors provides unified error handling for the stewardtrack
// bridge. It implements structured error types with machine-readable
// codes and retryable detection.
package errors
