package repository

import (
	"context"
	"time"

	"github.com/lingvoapp/auth-service/internal/domain"
)

// CodeRepository holds at most one live verification code per phone
// number. Put replaces whatever was stored before; Consume is atomic so
// that concurrent logins with the same code produce exactly one winner.
type CodeRepository interface {
	// Put stores code for phone, overwriting any previous entry.
	Put(ctx context.Context, code domain.VerificationCode) error

	// Get returns the stored code for phone, or ErrCodeNotFound. Expiry
	// is not checked here; callers own the validity policy.
	Get(ctx context.Context, phone string) (*domain.VerificationCode, error)

	// Consume deletes the stored code if and only if it equals code, as a
	// single atomic step. Returns false when the entry is absent or holds
	// a different code.
	Consume(ctx context.Context, phone, code string) (bool, error)

	// Delete removes the stored code for phone, if any.
	Delete(ctx context.Context, phone string) error
}

// TTLGrace is how long stores may keep an entry past its logical expiry
// before garbage-collecting it. Expiry itself is always decided against
// ExpiresAt at read time, never by store eviction.
const TTLGrace = time.Hour
