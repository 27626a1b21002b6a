package domain_test

import (
	"errors"
	"testing"

	"github.com/lingvoapp/auth-service/internal/domain"
)

func TestNormalizePhone_AddsPlusPrefix(t *testing.T) {
	got, err := domain.NormalizePhone("998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+998901234567" {
		t.Errorf("got %q, want %q", got, "+998901234567")
	}
}

func TestNormalizePhone_KeepsExistingPlus(t *testing.T) {
	got, err := domain.NormalizePhone("+998901234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+998901234567" {
		t.Errorf("got %q, want %q", got, "+998901234567")
	}
}

func TestNormalizePhone_StripsSeparators(t *testing.T) {
	got, err := domain.NormalizePhone("+998 (90) 123-45-67")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+998901234567" {
		t.Errorf("got %q, want %q", got, "+998901234567")
	}
}

func TestNormalizePhone_Empty_Fails(t *testing.T) {
	if _, err := domain.NormalizePhone(""); !errors.Is(err, domain.ErrInvalidPhone) {
		t.Errorf("want ErrInvalidPhone, got %v", err)
	}
}

func TestNormalizePhone_Letters_Fail(t *testing.T) {
	if _, err := domain.NormalizePhone("+99890abc4567"); !errors.Is(err, domain.ErrInvalidPhone) {
		t.Errorf("want ErrInvalidPhone, got %v", err)
	}
}

func TestNormalizePhone_TooShort_Fails(t *testing.T) {
	if _, err := domain.NormalizePhone("12345"); !errors.Is(err, domain.ErrInvalidPhone) {
		t.Errorf("want ErrInvalidPhone, got %v", err)
	}
}

func TestNormalizePhone_TooLong_Fails(t *testing.T) {
	if _, err := domain.NormalizePhone("1234567890123456"); !errors.Is(err, domain.ErrInvalidPhone) {
		t.Errorf("want ErrInvalidPhone, got %v", err)
	}
}
