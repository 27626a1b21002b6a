package domain

import (
	"errors"
	"time"
)

// Verification code failures. The HTTP layer collapses all three into a
// single "invalid or expired code" response so callers cannot tell a
// wrong guess from a code that was never issued.
var (
	ErrCodeNotFound = errors.New("verification code not found")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("verification code mismatch")
)

// ErrCodeDelivery marks a failure on the delivery channel after the code
// was already stored. The stored code stays valid; the caller may retry.
var ErrCodeDelivery = errors.New("verification code delivery failed")

// Token failures. Collapsed to a generic unauthenticated response at the
// boundary; the distinction exists for logs only.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// VerificationCode is the single live code for a phone number. Issuing a
// new code for the same phone replaces it; a successful login deletes it.
type VerificationCode struct {
	PhoneNumber string
	Code        string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the code is past its validity window at now.
func (c VerificationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// TokenPair is the bearer credential set returned by login and refresh.
// Both tokens carry the user ID as subject; the access window is always
// shorter than the refresh window.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
