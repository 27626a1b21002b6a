package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/lingvoapp/auth-service/internal/domain"
	"github.com/lingvoapp/auth-service/internal/token"
)

const (
	testSecret = "token-test-secret-that-is-32-chars!"
	accessTTL  = 7 * 24 * time.Hour
	refreshTTL = 30 * 24 * time.Hour
)

func newProvider() *token.Provider {
	return token.NewProvider([]byte(testSecret), accessTTL, refreshTTL)
}

func TestIssuePair_AccessValidatesToSubject(t *testing.T) {
	p := newProvider()

	pair, err := p.IssuePair("user-1", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub, err := p.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if sub != "user-1" {
		t.Errorf("subject = %q, want %q", sub, "user-1")
	}
}

func TestIssuePair_RefreshValidatesToSubject(t *testing.T) {
	p := newProvider()

	pair, err := p.IssuePair("user-2", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub, err := p.ValidateRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if sub != "user-2" {
		t.Errorf("subject = %q, want %q", sub, "user-2")
	}
}

func TestIssuePair_SubjectsNeverCross(t *testing.T) {
	p := newProvider()

	pairA, err := p.IssuePair("user-a", "+111111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pairB, err := p.IssuePair("user-b", "+222222222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	subA, _ := p.ValidateAccess(pairA.AccessToken)
	subB, _ := p.ValidateAccess(pairB.AccessToken)
	if subA == subB {
		t.Errorf("tokens for different users validate to the same subject %q", subA)
	}
}

func TestIssuePair_AccessWindowInsideRefreshWindow(t *testing.T) {
	pair, err := newProvider().IssuePair("user-1", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pair.AccessExpiresAt.Before(pair.RefreshExpiresAt) {
		t.Errorf("access expiry %v is not before refresh expiry %v",
			pair.AccessExpiresAt, pair.RefreshExpiresAt)
	}
}

func TestValidateAccess_RefreshTokenRejected(t *testing.T) {
	p := newProvider()

	pair, err := p.IssuePair("user-1", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := p.ValidateAccess(pair.RefreshToken); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Errorf("want ErrTokenMalformed for refresh token in access context, got %v", err)
	}
}

func TestValidateRefresh_AccessTokenRejected(t *testing.T) {
	p := newProvider()

	pair, err := p.IssuePair("user-1", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := p.ValidateRefresh(pair.AccessToken); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Errorf("want ErrTokenMalformed for access token in refresh context, got %v", err)
	}
}

func TestValidateAccess_WrongKey_SignatureError(t *testing.T) {
	pair, err := newProvider().IssuePair("user-1", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := token.NewProvider([]byte("another-secret-also-32-chars-long!!"), accessTTL, refreshTTL)
	if _, err := other.ValidateAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenSignature) {
		t.Errorf("want ErrTokenSignature, got %v", err)
	}
}

func TestValidateAccess_Garbage_Malformed(t *testing.T) {
	if _, err := newProvider().ValidateAccess("not.a.jwt"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Errorf("want ErrTokenMalformed, got %v", err)
	}
}

func TestValidateAccess_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := newProvider()
	p.Now = func() time.Time { return issuedAt }

	pair, err := p.IssuePair("user-1", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One second before expiry the token is still good.
	p.Now = func() time.Time { return issuedAt.Add(accessTTL - time.Second) }
	if _, err := p.ValidateAccess(pair.AccessToken); err != nil {
		t.Errorf("token invalid 1s before expiry: %v", err)
	}

	// At exactly expiry it is not.
	p.Now = func() time.Time { return issuedAt.Add(accessTTL) }
	if _, err := p.ValidateAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired at exact expiry, got %v", err)
	}
}

func TestValidateRefresh_ExpiredAfterThirtyDays(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := newProvider()
	p.Now = func() time.Time { return issuedAt }

	pair, err := p.IssuePair("user-1", "+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Now = func() time.Time { return issuedAt.Add(refreshTTL + time.Second) }
	if _, err := p.ValidateRefresh(pair.RefreshToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}
