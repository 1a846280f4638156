package utils

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	passwordSpecials  = `!@#$%^&*(),.?":{}|<>`
)

var (
	ErrPasswordTooShort  = errors.New("password too short")
	ErrPasswordNoUpper   = errors.New("password needs an uppercase letter")
	ErrPasswordNoSpecial = errors.New("password needs a special character")
)

// CheckPasswordStrength reports the first signup rule the password breaks.
func CheckPasswordStrength(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case !strings.ContainsFunc(password, unicode.IsUpper):
		return ErrPasswordNoUpper
	case !strings.ContainsAny(password, passwordSpecials):
		return ErrPasswordNoSpecial
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
