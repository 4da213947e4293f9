// Package secrets is the time-boxed store for single-use values: password
// reset tokens, OTP codes, and MFA login sessions. Every entry has a strict
// TTL; a Get on an expired key and a Get on a never-set key are
// indistinguishable so callers can't probe for token existence.
package secrets

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent, whether it was never set,
// already consumed, or expired.
var ErrNotFound = errors.New("secrets: not found")

// Store associates short-lived secrets with values. Per-key operations are
// atomic; a new Put on an existing key overwrites it so no two valid secrets
// under the same key coexist.
type Store interface {
	// Put stores value under key, retrievable only within ttl.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key. Idempotent; deleting an absent key is not an error.
	// Must be called immediately after a successful one-time use.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources.
	Close() error
}

// Key prefixes. Keys are flat strings so both the redis and memory drivers
// can treat them opaquely.
const (
	resetPrefix      = "password_reset:"
	otpPrefix        = "otp:"
	mfaSessionPrefix = "mfa_session:"
)

// ResetKey returns the storage key for a password-reset token.
func ResetKey(token string) string { return resetPrefix + token }

// OTPKey returns the storage key for an email's pending OTP code.
func OTPKey(email string) string { return otpPrefix + email }

// MFASessionKey returns the storage key for a pending MFA login session.
func MFASessionKey(token string) string { return mfaSessionPrefix + token }
