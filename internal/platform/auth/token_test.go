package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager(testSecret, "travel-catalog-api")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	raw, err := m.Issue("agent-42", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	sub, err := m.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "agent-42" {
		t.Fatalf("subject=%q", sub)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager(testSecret, "travel-catalog-api")
	raw, err := m.Issue("agent-42", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(raw); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err=%v", err)
	}
}

func TestVerify_RejectsWrongIssuerAndSecret(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager(testSecret, "travel-catalog-api")

	other, _ := NewTokenManager(testSecret, "someone-else")
	raw, _ := other.Issue("agent-42", time.Hour)
	if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer: %v", err)
	}

	forged, _ := NewTokenManager("ffffffffffffffffffffffffffffffff", "travel-catalog-api")
	raw, _ = forged.Issue("agent-42", time.Hour)
	if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: %v", err)
	}

	if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: %v", err)
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("short", "issuer"); err == nil {
		t.Fatalf("expected error for short secret")
	}
	if _, err := NewTokenManager(testSecret, ""); err == nil {
		t.Fatalf("expected error for empty issuer")
	}
}
