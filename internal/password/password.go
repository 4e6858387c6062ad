// Package password hashes and verifies user credentials.
//
// bcrypt salts every hash and embeds the salt and cost in its output, so the
// digest is the only thing that needs storing.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest password bcrypt hashes without truncation.
const MaxLength = 72

var (
	ErrMismatch = errors.New("password does not match")
	ErrTooLong  = fmt.Errorf("password must be %d bytes or fewer", MaxLength)
)

// Hasher turns passwords into digests and checks them again later.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) error
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using bcrypt.DefaultCost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost is for tests, where bcrypt.MinCost keeps suites fast.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxLength {
		return "", ErrTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil when plaintext matches digest and ErrMismatch when it
// does not. Malformed digests yield a wrapped bcrypt error.
func (h *BcryptHasher) Verify(plaintext, digest string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("comparing password hash: %w", err)
}
