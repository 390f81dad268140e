package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

var (
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
	ErrInvalidCost     = fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	ErrVerification    = errors.New("password verification failed")
)

// VerificationError wraps a malformed stored hash. A plain mismatch is never
// a VerificationError.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("password verification failed: %v", e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

func (e *VerificationError) Is(target error) bool { return target == ErrVerification }

// PasswordVerifier hashes and checks passwords with bcrypt at a fixed cost.
type PasswordVerifier struct {
	cost int
	// equalizer is a throwaway hash at the same cost, compared against when
	// there is no stored hash so every login attempt does one bcrypt pass.
	equalizer []byte
}

// NewPasswordVerifier creates a verifier. A cost of zero selects bcrypt.DefaultCost.
func NewPasswordVerifier(cost int) (*PasswordVerifier, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidCost
	}

	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	equalizer, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(seed[:16])), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare verifier: %w", err)
	}

	return &PasswordVerifier{cost: cost, equalizer: equalizer}, nil
}

// Cost returns the bcrypt work factor.
func (v *PasswordVerifier) Cost() int {
	return v.cost
}

// Hash creates a salted bcrypt hash of the password.
func (v *PasswordVerifier) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares a password with its hash. A mismatch returns false with a
// nil error; only a malformed hash produces an error.
func (v *PasswordVerifier) Verify(plaintext, hash string) (bool, error) {
	if len(plaintext) > maxPasswordBytes {
		// Could never have been hashed; still pay for one comparison.
		v.Equalize(plaintext)
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, &VerificationError{Err: err}
	}
}

// Equalize spends the same bcrypt work as Verify and discards the result.
func (v *PasswordVerifier) Equalize(plaintext string) {
	sum := sha256.Sum256([]byte(plaintext))
	_ = bcrypt.CompareHashAndPassword(v.equalizer, []byte(hex.EncodeToString(sum[:16])))
}

// GenerateSessionSecret creates a random 32-byte secret, hex encoded.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
