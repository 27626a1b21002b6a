package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when no identity matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrIdentityConflict is returned when creating an identity would
	// violate the telegram_id or phone_number uniqueness constraint.
	ErrIdentityConflict = errors.New("identity already bound to another account")
)

// User is the durable identity a verified phone number resolves to.
// Profile fields (names, avatar) live in a separate service and are
// not managed here.
type User struct {
	ID          string
	TelegramID  int64
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
