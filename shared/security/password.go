package security

import (
	"github.com/matthewhartstonge/argon2"
)

// HashPassword hashes a plaintext password with argon2id using a per-call
// random salt. Two hashes of the same password never compare equal; use
// VerifyPassword to check a candidate.
func HashPassword(password string) (string, error) {
	cfg := argon2.DefaultConfig()

	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the plaintext password matches the encoded
// hash. A malformed or empty hash is treated as a mismatch, not an error, so
// password login attempts against accounts without a password hash (e.g.
// Google-only accounts) fail safely.
func VerifyPassword(password, encodedHash string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, nil
	}

	return ok, nil
}
