package pkg

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the bcrypt input limit, longer passwords are rejected instead of truncated.
const MaxPasswordLength = 72

var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

// PasswordHashCost is lowered in tests only.
var PasswordHashCost = 12

func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return BytesToString(bytes), err
}

// CheckPasswordHash compares in constant time. A malformed hash never matches.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
