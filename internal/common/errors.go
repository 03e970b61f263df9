// Package common defines shared constants and sentinel errors used across
// Filekeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorForbidden means the authenticated actor lacks rights for the
	// requested operation on the target file.
	ErrorForbidden = errors.New("forbidden")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// ErrMalformedPayload marks a stored payload too short to contain the
	// nonce prefix. Decoding fails instead of decrypting garbage.
	ErrMalformedPayload = errors.New("malformed encrypted payload")

	// ErrCrypto marks a decryption or integrity failure (wrong key,
	// corrupted or truncated ciphertext). Never retryable; never silently
	// produces corrupted plaintext.
	ErrCrypto = errors.New("crypto error")

	// ErrStore marks an object-store or metadata-store I/O failure.
	// Retryable at the caller's discretion, never masked as not found.
	ErrStore = errors.New("store error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
