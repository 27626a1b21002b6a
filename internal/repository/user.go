package repository

import (
	"context"

	"github.com/lingvoapp/auth-service/internal/domain"
)

type UserRepository interface {
	// FindOrCreate resolves the identity for a phone number, creating one
	// bound to telegramID when none exists. Returns ErrIdentityConflict if
	// telegramID is already bound to a different phone number.
	FindOrCreate(ctx context.Context, phone string, telegramID int64) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
