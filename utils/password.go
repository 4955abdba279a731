package utils

import (
	"github.com/alexedwards/argon2id"
)

// HashPassword derives an argon2id hash from the plaintext. The stored value
// is never reversible and never equals the submitted password.
func HashPassword(plaintext string) (string, error) {
	return argon2id.CreateHash(plaintext, argon2id.DefaultParams)
}

// VerifyPassword checks a plaintext candidate against a stored hash using the
// library's constant-time comparison.
func VerifyPassword(hash, plaintext string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plaintext, hash)
}
