package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "staffdir/internal/errors"
)

// BcryptCost is the work factor used for new password hashes.
const BcryptCost = 10

// MaxPasswordBytes is the longest input bcrypt uses. Longer passwords are
// truncated, so only their first 72 bytes matter.
const MaxPasswordBytes = 72

// ErrPasswordMismatch is returned when a plaintext does not match its hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword hashes plain with a freshly generated salt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(plain), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: hash password: %w", apperrors.ErrInternal, err)
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash with a plaintext password.
// A wrong password yields ErrPasswordMismatch; any other error means the
// hash itself could not be used.
func CheckPassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncate(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("compare password: %w", err)
	}
}

func truncate(plain string) []byte {
	b := []byte(plain)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
