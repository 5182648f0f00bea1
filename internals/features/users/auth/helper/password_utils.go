package helpers

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword membuat hash bcrypt dari password plaintext.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash membandingkan hash tersimpan dengan password input.
// Return nil jika cocok.
func CheckPasswordHash(hash, password string) error {
	if hash == "" {
		return errors.New("akun ini tidak memiliki password (login via Google)")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// validatePasswordStrength: minimal 8 karakter, ada huruf kecil, huruf besar, dan angka.
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password minimal 8 karakter")
	}
	if !regexp.MustCompile(`[a-z]`).MatchString(password) {
		return errors.New("password wajib mengandung huruf kecil (a-z)")
	}
	if !regexp.MustCompile(`[A-Z]`).MatchString(password) {
		return errors.New("password wajib mengandung huruf besar (A-Z)")
	}
	if !regexp.MustCompile(`\d`).MatchString(password) {
		return errors.New("password wajib mengandung angka (0-9)")
	}
	return nil
}
