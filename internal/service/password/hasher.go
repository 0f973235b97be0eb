package password

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Interface to create or compare password hashes
type Hasher interface {
	// Generate hash from plain password
	Hash(plain string) (string, error)

	// Compare known hash and user provided password
	// Must be protected against timing attacks
	Compare(hash string, plain string) error
}

// Bcrypt password hasher
// Password is pre-hashed with sha256 so bcrypt 72 bytes input limit never truncates it
type BcryptHasher struct {
	// bcrypt.DefaultCost if zero
	Cost int
}

var DefaultHasher Hasher = BcryptHasher{}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	sum := sha256.Sum256([]byte(plain))
	hash, err := bcrypt.GenerateFromPassword(sum[:], cost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hash string, plain string) error {
	sum := sha256.Sum256([]byte(plain))
	return bcrypt.CompareHashAndPassword([]byte(hash), sum[:])
}
