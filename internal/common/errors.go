// Package common defines shared constants and sentinel errors used across
// taskdeck layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Object-store errors. Surfaced to the user as transient failures;
	// never retried automatically.
	ErrStorageWrite  = errors.New("storage write failed")
	ErrStorageDelete = errors.New("storage delete failed")

	// ErrAuthRequired means an operation needing a resolved user identity
	// was attempted without one. Raised before any network call.
	ErrAuthRequired = errors.New("authentication required")

	// Credential lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Edit-session errors.
	ErrNotEditing = errors.New("no edit session in progress")

	// Webhook push errors.
	ErrWebhookNotConfigured = errors.New("no tracker webhook configured")
)
