package service

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authHelper "absensiku_backend/internals/features/users/auth/helper"
	authRepo "absensiku_backend/internals/features/users/auth/repository"
	helper "absensiku_backend/internals/helpers"
)

// ========================== RESET PASSWORD ==========================
// Alur lupa password: jawaban keamanan diverifikasi ULANG di sini,
// bukan cuma di endpoint check-security-answer, supaya reset tidak bisa
// dipanggil langsung tanpa bukti.
func ResetPassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Email          string `json:"email"`
		SecurityAnswer string `json:"security_answer"`
		NewPassword    string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}

	// 🔹 Validasi format email dan password
	if err := authHelper.ValidateResetPassword(input.Email, input.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error()) // 422 untuk validasi
	}

	// 🔹 Cari user
	user, err := authRepo.FindUserByEmail(db, input.Email)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	// 🔹 Verifikasi jawaban keamanan
	if !strings.EqualFold(strings.TrimSpace(input.SecurityAnswer), strings.TrimSpace(user.SecurityAnswer)) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Incorrect security answer")
	}

	// 🔹 Hash password baru
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	// 🔹 Update password + cabut semua refresh token lama
	if err := authRepo.UpdateUserPassword(db, user.ID, string(hashedPassword)); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	_ = authRepo.RevokeAllRefreshTokensForUser(db, user.ID)

	return helper.JsonUpdated(c, "Password reset successfully", nil)
}

// ========================== CHANGE PASSWORD ==========================
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}

	// Ambil user_id dari Locals dengan aman
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	// Ambil user
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	// Cek password lama
	if err := authHelper.CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Current password incorrect")
	}

	// Hash password baru
	newHash, err := authHelper.HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash new password")
	}

	// Update password + cabut semua refresh token lama
	if err := authRepo.UpdateUserPassword(db, userID, newHash); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	_ = authRepo.RevokeAllRefreshTokensForUser(db, userID)

	return helper.JsonUpdated(c, "Password changed successfully", nil)
}
