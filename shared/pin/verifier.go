// Package pin verifies the delete PIN that gates destructive operations.
// Only a bcrypt hash of the PIN is ever stored.
package pin

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// Store is the settings lookup the verifier needs.
type Store interface {
	PINHash(ctx context.Context) (string, error)
}

// Verifier answers whether a submitted PIN matches the stored hash.
type Verifier struct {
	store Store
}

func NewVerifier(store Store) *Verifier {
	return &Verifier{store: store}
}

// Verify returns (true, nil) only for the correct PIN. An empty PIN is a
// Validation error, an unset PIN a NotFound error and a failed lookup a
// Store error; in all three cases the verdict is false.
func (v *Verifier) Verify(ctx context.Context, submitted string) (bool, error) {
	if submitted == "" {
		return false, apperrors.Validation("PIN is required")
	}
	hash, err := v.store.PINHash(ctx)
	if err != nil {
		return false, err
	}
	if !isBcryptHash(hash) {
		log.Printf("Stored delete PIN is not a bcrypt hash; reset it with pinctl set-pin")
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(submitted))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		log.Printf("Error comparing PIN hash: %v", err)
		return false, nil
	}
	return true, nil
}

// Hash validates a new PIN and returns its bcrypt hash.
func Hash(newPIN string) (string, error) {
	if err := ValidateNewPIN(newPIN); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ValidateNewPIN requires 4 to 12 digits.
func ValidateNewPIN(newPIN string) error {
	if len(newPIN) < 4 || len(newPIN) > 12 {
		return apperrors.Validation("PIN must be 4 to 12 digits")
	}
	for _, r := range newPIN {
		if !unicode.IsDigit(r) {
			return apperrors.Validation("PIN must be 4 to 12 digits")
		}
	}
	return nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
