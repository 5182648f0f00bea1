// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	authModel "absensiku_backend/internals/features/users/auth/model"
	authRepo "absensiku_backend/internals/features/users/auth/repository"
	helpers "absensiku_backend/internals/helpers"
	"absensiku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ========================== REFRESH TOKEN ==========================
// POST /api/auth/refresh-token
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	// CSRF wajib untuk endpoint cookie-based
	if err := helpers.CheckCSRFCookieHeader(c); err != nil {
		return helpers.JsonError(c, fiber.StatusForbidden, err.Error())
	}
	refreshCookie := strings.TrimSpace(c.Cookies("refresh_token"))
	if refreshCookie == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}

	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// Parse & validate refresh JWT
	tok, err := jwt.Parse(refreshCookie, func(t *jwt.Token) (any, error) {
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	// Pastikan hash refresh masih aktif di DB (belum dirotasi / dicabut)
	hash := computeRefreshHash(refreshCookie, refreshSecret)
	stored, err := findActiveRefreshToken(db, hash)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak dikenal")
	}
	if stored.UserID != userID {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	userFull, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "User not found")
	}
	if !userFull.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	// Refresh juga membuka sesi baru, jadi aturan perangkat tetap berlaku.
	// Tanpa side effect bind: ikatan hanya terjadi saat login.
	if DecideDevice(userFull, DeviceIDFromRequest(c)) == DeviceBlock {
		return respondDeviceBlocked(c, userFull.DeviceResetRequested)
	}

	// ROTATE: cabut token lama sebelum terbitkan yang baru
	if err := authRepo.RevokeRefreshToken(db, stored.ID); err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal rotasi refresh token")
	}

	jwtSecret, err := getJWTSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	now := nowUTC()

	accessClaims := buildAccessClaims(*userFull, now)
	refreshClaims := buildRefreshClaims(*userFull, now)

	newAccess, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(jwtSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal buat access baru")
	}
	newRefresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(refreshSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal buat refresh baru")
	}

	// simpan hash refresh baru
	if err := createRefreshTokenFast(db, &authModel.RefreshToken{
		UserID:    userFull.ID,
		Token:     computeRefreshHash(newRefresh, refreshSecret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(c.Get("User-Agent")),
		IP:        strptr(c.IP()),
	}); err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal simpan refresh baru")
	}

	// set cookie access+refresh baru plus CSRF baru
	setAuthCookies(c, newAccess, newRefresh, now)
	setCSRFCookie(c, randomString(48), now.Add(24*time.Hour))

	return helpers.JsonOK(c, "Token diperbarui", fiber.Map{
		"access_token": newAccess,
	})
}

// Cari refresh token yang aktif (belum di-revoke, belum expired)
func findActiveRefreshToken(db *gorm.DB, hash []byte) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	if err := db.
		Where("token = ? AND revoked_at IS NULL AND expires_at > NOW()", hash).
		Limit(1).
		Find(&rt).Error; err != nil {
		return nil, err
	}
	if rt.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &rt, nil
}

// ========================== CSRF ==========================

// CSRF: seed cookie csrf_token untuk double-submit strategy
func CSRF(db *gorm.DB, c *fiber.Ctx) error {
	origin := getRequestOrigin(c)
	// 🔧 relaks aturan: jika origin kosong, tetap lolos (akan tetap dibatasi oleh CORS layer)
	if origin != "" && !isAllowedOrigin(origin) {
		return helpers.JsonError(c, fiber.StatusForbidden, "Origin not allowed")
	}

	token := randomString(48)
	setCSRFCookie(c, token, nowUTC().Add(24*time.Hour))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{"csrf_token": token},
	})
}

func getRequestOrigin(c *fiber.Ctx) string {
	if o := strings.TrimSpace(c.Get("Origin")); o != "" {
		return o
	}
	ref := strings.TrimSpace(c.Get("Referer"))
	if ref == "" {
		return ""
	}
	// Ambil scheme://host dari referer
	parts := strings.SplitN(ref, "/", 4)
	if len(parts) >= 3 {
		return parts[0] + "//" + parts[2]
	}
	return ""
}

func isAllowedOrigin(origin string) bool {
	for _, o := range middlewares.AllowedOrigins() {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// Bukan HTTPOnly: double-submit butuh JS bisa baca nilainya.
func setCSRFCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "csrf_token",
		Value:    token,
		HTTPOnly: false,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  expires,
	})
}

func randomString(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		// fallback deterministik sangat kecil kemungkinannya terpakai
		return hex.EncodeToString([]byte(time.Now().UTC().String()))[:n]
	}
	return hex.EncodeToString(b)[:n]
}
