// Package memstore is the in-process verification-code store used when
// no Redis URL is configured (ENV=local and tests). Same contract as the
// redis store: one entry per phone, atomic consume.
package memstore

import (
	"context"
	"sync"

	"github.com/lingvoapp/auth-service/internal/domain"
)

type CodeRepository struct {
	mu    sync.Mutex
	codes map[string]domain.VerificationCode
}

func NewCodeRepository() *CodeRepository {
	return &CodeRepository{codes: make(map[string]domain.VerificationCode)}
}

func (r *CodeRepository) Put(_ context.Context, code domain.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code.PhoneNumber] = code
	return nil
}

func (r *CodeRepository) Get(_ context.Context, phone string) (*domain.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[phone]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	return &code, nil
}

// Consume holds the lock across the compare and the delete, so two
// concurrent calls with the same valid code see exactly one success.
func (r *CodeRepository) Consume(_ context.Context, phone, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[phone]
	if !ok || stored.Code != code {
		return false, nil
	}
	delete(r.codes, phone)
	return true, nil
}

func (r *CodeRepository) Delete(_ context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, phone)
	return nil
}
