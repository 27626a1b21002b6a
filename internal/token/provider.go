// Package token issues and validates the signed access/refresh token
// pair. Tokens are stateless HS256 JWTs; nothing is persisted, so
// validation never touches storage.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lingvoapp/auth-service/internal/domain"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the payload carried by both token kinds. Subject is the user
// ID; Type keeps an access token from ever passing refresh validation
// and vice versa.
type Claims struct {
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

type Provider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Now is the clock used for issuance and validation. Tests override
	// it to pin expiry boundaries.
	Now func() time.Time
}

func NewProvider(secret []byte, accessTTL, refreshTTL time.Duration) *Provider {
	return &Provider{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		Now:        time.Now,
	}
}

// IssuePair mints an access and a refresh token bound to userID.
func (p *Provider) IssuePair(userID, phone string) (*domain.TokenPair, error) {
	now := p.Now().UTC()
	accessExp := now.Add(p.accessTTL)
	refreshExp := now.Add(p.refreshTTL)

	access, err := p.sign(userID, phone, TypeAccess, now, accessExp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := p.sign(userID, phone, TypeRefresh, now, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ValidateAccess verifies an access token and returns its subject.
func (p *Provider) ValidateAccess(raw string) (string, error) {
	return p.validate(raw, TypeAccess)
}

// ValidateRefresh verifies a refresh token and returns its subject.
func (p *Provider) ValidateRefresh(raw string) (string, error) {
	return p.validate(raw, TypeRefresh)
}

func (p *Provider) sign(userID, phone, tokenType string, now, expiresAt time.Time) (string, error) {
	claims := Claims{
		Phone: phone,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *Provider) validate(raw, wantType string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", domain.ErrTokenSignature
		default:
			return "", domain.ErrTokenMalformed
		}
	}
	if claims.Type != wantType || claims.Subject == "" {
		return "", domain.ErrTokenMalformed
	}
	return claims.Subject, nil
}
