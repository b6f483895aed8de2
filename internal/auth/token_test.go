package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	// NewTokenManager refuses a non-positive ttl, so build one directly.
	m := &TokenManager{secret: []byte("test-secret"), ttl: -time.Hour}

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("verify expired token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", time.Hour)
	verifier := NewTokenManager("secret-two", time.Hour)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("verify with wrong secret: err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("verify garbage: err = %v, want ErrTokenInvalid", err)
	}
}
