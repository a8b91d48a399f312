package accesscode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	codeMin  = 10000
	codeSpan = 90000
)

// Generate draws a uniform 5-digit access code and returns the plaintext
// alongside its bcrypt hash. The plaintext exists only for one-time
// delivery; callers must never persist it.
func Generate() (plain string, hash []byte, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", nil, fmt.Errorf("draw access code: %w", err)
	}

	plain = fmt.Sprintf("%05d", codeMin+n.Int64())

	hash, err = bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash access code: %w", err)
	}
	return plain, hash, nil
}

// Verify compares a presented code against the stored hash. Any mismatch
// or malformed hash yields false; the comparison itself is bcrypt's own
// constant-time primitive.
func Verify(presented string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(presented)) == nil
}
