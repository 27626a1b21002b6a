package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lingvoapp/auth-service/internal/domain"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindOrCreate resolves the identity for phone, inserting a new row bound
// to telegramID when none exists. ON CONFLICT DO NOTHING keeps concurrent
// first logins for the same phone from racing: both end up reading the
// single surviving row.
func (r *UserRepository) FindOrCreate(ctx context.Context, phone string, telegramID int64) (*domain.User, error) {
	query := `
		INSERT INTO users (id, telegram_id, phone_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone_number) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, uuid.NewString(), telegramID, phone)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// telegram_id already bound to a different phone number.
			return nil, domain.ErrIdentityConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.FindByPhone(ctx, phone)
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `
		SELECT id, telegram_id, phone_number, created_at, updated_at
		FROM users
		WHERE phone_number = $1`

	return scanUser(r.pool.QueryRow(ctx, query, phone))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, telegram_id, phone_number, created_at, updated_at
		FROM users
		WHERE id = $1`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
