package accesscode

import "testing"

func TestGenerateProducesFiveDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		plain, hash, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(plain) != 5 {
			t.Fatalf("expected 5 digit code, got %q", plain)
		}
		if plain[0] == '0' {
			t.Fatalf("code below 10000: %q", plain)
		}
		if len(hash) == 0 {
			t.Fatalf("expected non-empty hash")
		}
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	plain, hash, err := Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !Verify(plain, hash) {
		t.Fatalf("expected generated code to verify against its own hash")
	}
	if Verify("00000", hash) {
		t.Fatalf("expected mismatching code to fail verification")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if Verify("12345", []byte("not-a-bcrypt-hash")) {
		t.Fatalf("expected malformed hash to fail verification")
	}
}
