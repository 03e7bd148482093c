package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt digest stored in users.password_hash.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword returns nil when password produced digest. Login maps any
// error to ErrInvalidCredentials so callers cannot tell a bad password from
// a corrupt digest.
func CheckPassword(password, digest string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
}

// normalizeEmail is applied on register and login so lookups are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
