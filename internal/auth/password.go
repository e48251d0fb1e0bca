package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher applies a salted one-way transform with a fixed work factor.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher. Costs outside bcrypt's supported range
// fall back to the library default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash derives a salted digest from plaintext. The salt is random, so the
// same plaintext yields a different digest on every call.
func (h Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password must not be empty")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify recomputes the digest using the salt embedded in digest and
// compares in constant time. A mismatch returns false, never an error.
func (h Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
