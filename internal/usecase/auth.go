package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/lingvoapp/auth-service/internal/domain"
	"github.com/lingvoapp/auth-service/internal/repository"
	"github.com/lingvoapp/auth-service/internal/telegram"
	"github.com/lingvoapp/auth-service/internal/token"
)

const codeLength = 4

type AuthUsecase struct {
	users   repository.UserRepository
	codes   repository.CodeRepository
	tokens  *token.Provider
	sender  telegram.Sender
	codeTTL time.Duration
	now     func() time.Time
}

func NewAuthUsecase(users repository.UserRepository, codes repository.CodeRepository, tokens *token.Provider, sender telegram.Sender, codeTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		users:   users,
		codes:   codes,
		tokens:  tokens,
		sender:  sender,
		codeTTL: codeTTL,
		now:     time.Now,
	}
}

// RequestCode issues a fresh verification code for a phone number,
// replacing any outstanding one, and hands it to the Telegram sender.
// The recipient chat is the known user's telegram ID; for a phone the
// platform has never seen, the caller (the bot) must supply chatID.
func (u *AuthUsecase) RequestCode(ctx context.Context, rawPhone string, chatID int64) error {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return err
	}

	user, err := u.users.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		chatID = user.TelegramID
	case errors.Is(err, domain.ErrUserNotFound):
		if chatID == 0 {
			return domain.ErrUserNotFound
		}
	default:
		return fmt.Errorf("resolve recipient: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	now := u.now().UTC()
	vc := domain.VerificationCode{
		PhoneNumber: phone,
		Code:        code,
		IssuedAt:    now,
		ExpiresAt:   now.Add(u.codeTTL),
	}
	if err := u.codes.Put(ctx, vc); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if err := u.sender.SendCode(ctx, chatID, code); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCodeDelivery, err)
	}
	return nil
}

// Login trades a phone number and its live verification code for a token
// pair. The code is single-use: the compare-and-delete on the store is
// atomic, so concurrent logins with the same code yield one winner. For
// a phone with no identity yet, one is created bound to telegramID.
func (u *AuthUsecase) Login(ctx context.Context, rawPhone, code string, telegramID int64) (*domain.TokenPair, *domain.User, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return nil, nil, err
	}

	vc, err := u.codes.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return nil, nil, domain.ErrCodeNotFound
		}
		return nil, nil, fmt.Errorf("load code: %w", err)
	}

	if vc.Expired(u.now().UTC()) {
		// Lazy expiration: drop the stale entry on the way out.
		_ = u.codes.Delete(ctx, phone)
		return nil, nil, domain.ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(vc.Code), []byte(code)) != 1 {
		return nil, nil, domain.ErrCodeMismatch
	}

	consumed, err := u.codes.Consume(ctx, phone, code)
	if err != nil {
		return nil, nil, fmt.Errorf("consume code: %w", err)
	}
	if !consumed {
		// A concurrent login won the consume; for this caller the code
		// no longer exists.
		return nil, nil, domain.ErrCodeNotFound
	}

	user, err := u.resolveIdentity(ctx, phone, telegramID)
	if err != nil {
		return nil, nil, err
	}

	pair, err := u.tokens.IssuePair(user.ID, user.PhoneNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, user, nil
}

// Refresh trades a valid refresh token for a fresh pair. Refresh tokens
// rotate: the returned pair carries a new one, and no state is kept on
// the old token.
func (u *AuthUsecase) Refresh(ctx context.Context, rawToken string) (*domain.TokenPair, error) {
	userID, err := u.tokens.ValidateRefresh(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve subject: %w", err)
	}

	pair, err := u.tokens.IssuePair(user.ID, user.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// CurrentUser resolves the identity behind a validated access token.
func (u *AuthUsecase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return u.users.FindByID(ctx, userID)
}

func (u *AuthUsecase) resolveIdentity(ctx context.Context, phone string, telegramID int64) (*domain.User, error) {
	if telegramID != 0 {
		user, err := u.users.FindOrCreate(ctx, phone, telegramID)
		if err != nil {
			return nil, fmt.Errorf("find or create user: %w", err)
		}
		return user, nil
	}

	user, err := u.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// generateCode draws a uniform 4-digit numeric code, leading zeros kept.
func generateCode() (string, error) {
	limit := big.NewInt(0).Exp(big.NewInt(10), big.NewInt(codeLength), nil)
	value, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, value.Int64()), nil
}
