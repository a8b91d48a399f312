package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	signed, err := issuer.Issue("5512345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "5512345678" {
		t.Fatalf("expected subject 5512345678, got %s", subject)
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	signed, err := issuer.Issue("5512345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(signed); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	signed, err := issuer.Issue("5512345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := other.Verify(signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not.a.token"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
