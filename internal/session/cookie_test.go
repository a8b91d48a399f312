package session

import (
	"strings"
	"testing"
)

func TestSignedCookieRoundTrip(t *testing.T) {
	value := SignCookie("abc-123", "secret-0123456789")

	id, ok := VerifyCookie(value, "secret-0123456789")
	if !ok {
		t.Fatal("expected valid signature")
	}
	if id != "abc-123" {
		t.Fatalf("id = %q, want abc-123", id)
	}
}

func TestVerifyCookieRejectsTampering(t *testing.T) {
	value := SignCookie("abc-123", "secret-0123456789")

	tampered := strings.Replace(value, "abc-123", "abc-124", 1)
	if _, ok := VerifyCookie(tampered, "secret-0123456789"); ok {
		t.Fatal("expected tampered id to be rejected")
	}
	if _, ok := VerifyCookie(value, "other-secret"); ok {
		t.Fatal("expected wrong secret to be rejected")
	}
	if _, ok := VerifyCookie("no-signature-here", "secret-0123456789"); ok {
		t.Fatal("expected unsigned value to be rejected")
	}
	if _, ok := VerifyCookie(".orphan-signature", "secret-0123456789"); ok {
		t.Fatal("expected empty id to be rejected")
	}
}
