package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "absensiku_backend/internals/features/users/auth/model"
	userModel "absensiku_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByEmailOrUsername(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("email = ? OR user_name = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmailOrUsernameLight hanya memuat kolom yang dibutuhkan
// untuk verifikasi kredensial + keputusan perangkat saat login.
func FindUserByEmailOrUsernameLight(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Select("id", "password", "is_active", "role", "device_id", "device_reset_requested").
		Where("email = ? OR user_name = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, newPassword string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", newPassword).Error
}

// IsUsernameTaken cek apakah username sudah dipakai
func IsUsernameTaken(db *gorm.DB, username string) (bool, error) {
	if username == "" {
		return false, errors.New("username cannot be empty")
	}

	var exists bool
	err := db.
		Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE user_name = ? AND deleted_at IS NULL)`, username).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}

/* ====================== DEVICE BINDING ====================== */

// TryBindDevice mengikat perangkat ke user HANYA jika belum ada ikatan.
// Kondisi device_id IS NULL di WHERE membuat bind pertama atomik: dua
// request paralel tidak bisa sama-sama menang.
func TryBindDevice(db *gorm.DB, userID uuid.UUID, deviceID string) (bool, error) {
	res := db.Exec(
		`UPDATE users SET device_id = ?, updated_at = NOW() WHERE id = ? AND device_id IS NULL AND deleted_at IS NULL`,
		deviceID, userID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkDeviceResetRequested menandai user minta reset perangkat (idempotent).
func MarkDeviceResetRequested(db *gorm.DB, userID uuid.UUID) error {
	return db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("device_reset_requested", true).Error
}

// ClearDeviceBinding dipakai admin saat menyetujui reset: hapus ikatan
// perangkat sekaligus flag permintaannya.
func ClearDeviceBinding(db *gorm.DB, userID uuid.UUID) error {
	return db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"device_id":              nil,
			"device_reset_requested": false,
		}).Error
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(db *gorm.DB, token *authModel.RefreshToken) error {
	return db.Create(token).Error
}

// FindRefreshTokenByHash mencari berdasarkan hash HMAC token (bukan plaintext).
func FindRefreshTokenByHash(db *gorm.DB, hash []byte) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	if err := db.Where("token = ?", hash).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken menandai token lama tidak berlaku (rotasi / logout).
func RevokeRefreshToken(db *gorm.DB, id uuid.UUID) error {
	now := time.Now().UTC()
	return db.Model(&authModel.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", now).Error
}

// RevokeAllRefreshTokensForUser dipakai saat ganti password / nonaktifkan akun.
func RevokeAllRefreshTokensForUser(db *gorm.DB, userID uuid.UUID) error {
	now := time.Now().UTC()
	return db.Model(&authModel.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

func DeleteRefreshTokenByHash(db *gorm.DB, hash []byte) error {
	return db.Where("token = ?", hash).Delete(&authModel.RefreshToken{}).Error
}

// CleanupExpiredRefreshTokens menghapus token yang sudah lewat masa berlaku
// atau sudah dicabut lebih dari 24 jam.
func CleanupExpiredRefreshTokens(db *gorm.DB) (int64, error) {
	res := db.Exec(
		`DELETE FROM refresh_tokens WHERE expires_at <= ? OR (revoked_at IS NOT NULL AND revoked_at <= ?)`,
		time.Now().UTC(), time.Now().UTC().Add(-24*time.Hour),
	)
	return res.RowsAffected, res.Error
}

/* ====================== BLACKLIST TOKEN ====================== */

func BlacklistToken(db *gorm.DB, token string, ttl time.Duration) error {
	return db.Create(&authModel.TokenBlacklist{
		Token:     token,
		ExpiredAt: time.Now().UTC().Add(ttl),
	}).Error
}

func CleanupExpiredBlacklist(db *gorm.DB) (int64, error) {
	res := db.Exec(`DELETE FROM token_blacklist WHERE expired_at <= ?`, time.Now().UTC())
	return res.RowsAffected, res.Error
}
