// Package common defines shared constants and sentinel errors used across
// the relay components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Ticket protocol errors.
	ErrInvalidSecretLength   = errors.New("invalid secret length")
	ErrAuthenticationFailure = errors.New("authentication failure")
	ErrMalformedBlob         = errors.New("malformed blob")

	// Conversation flow errors.
	ErrNoConversationFound   = errors.New("no conversation found")
	ErrSelfMessageDisallowed = errors.New("self message disallowed")
	ErrSenderBlocked         = errors.New("sender blocked")
	ErrRateLimited           = errors.New("rate limited")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
