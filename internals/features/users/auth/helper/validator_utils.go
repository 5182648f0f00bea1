package helpers

import (
	"errors"
	"regexp"
	"strings"
)

func isAlphaNumeric(s string) bool {
	hasLetter := regexp.MustCompile(`[A-Za-z]`).MatchString(s)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(s)
	return hasLetter && hasNumber
}

// Validasi Email (regex simple)
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// ValidateRegisterInput memeriksa seluruh field register sebelum masuk service.
func ValidateRegisterInput(userName, email, password, securityAnswer string) error {
	userName = strings.TrimSpace(userName)
	if len(userName) < 3 || len(userName) > 50 {
		return errors.New("username harus 3-50 karakter")
	}
	if !isAlphaNumeric(userName) {
		return errors.New("username harus mengandung huruf dan angka")
	}
	if !isValidEmail(strings.TrimSpace(email)) {
		return errors.New("format email tidak valid")
	}
	if err := validatePasswordStrength(password); err != nil {
		return err
	}
	if len(strings.TrimSpace(securityAnswer)) < 3 {
		return errors.New("jawaban keamanan minimal 3 karakter")
	}
	return nil
}

// ValidateLoginInput: identifier boleh email atau username.
func ValidateLoginInput(identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return errors.New("email atau username wajib diisi")
	}
	if password == "" {
		return errors.New("password wajib diisi")
	}
	return nil
}

// ValidateResetPassword dipakai alur forgot-password (sudah lolos security answer).
func ValidateResetPassword(email, newPassword string) error {
	if !isValidEmail(strings.TrimSpace(email)) {
		return errors.New("format email tidak valid")
	}
	return validatePasswordStrength(newPassword)
}

// ValidateSecurityAnswerInput untuk cek jawaban keamanan saat lupa password.
func ValidateSecurityAnswerInput(email, answer string) error {
	if !isValidEmail(strings.TrimSpace(email)) {
		return errors.New("format email tidak valid")
	}
	if strings.TrimSpace(answer) == "" {
		return errors.New("jawaban keamanan wajib diisi")
	}
	return nil
}
