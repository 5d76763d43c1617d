package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed; raising it invalidates nothing but slows logins.
const bcryptCost = 12

// HashPassword returns a salted one-way hash of the password. Empty input is
// rejected here even though callers validate first.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the hash. Mismatch
// returns false, never an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
