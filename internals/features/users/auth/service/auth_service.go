package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"absensiku_backend/internals/configs"
	"absensiku_backend/internals/constants"
	authHelper "absensiku_backend/internals/features/users/auth/helper"
	authModel "absensiku_backend/internals/features/users/auth/model"
	authRepo "absensiku_backend/internals/features/users/auth/repository"
	userModel "absensiku_backend/internals/features/users/user/model"
	helpers "absensiku_backend/internals/helpers"
)

/* ==========================
   Const & Types
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

/* ==========================
   Small Helpers
========================== */

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET"))
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET belum diset")
	}
	return secret, nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func computeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input userModel.UserModel
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := authHelper.ValidateRegisterInput(input.UserName, input.Email, input.Password, input.SecurityAnswer); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// Register publik selalu employee; akun admin dibuat lewat panel admin.
	input.Role = constants.RoleEmployee
	input.IsActive = true
	input.DeviceID = nil
	input.DeviceResetRequested = false

	if err := input.Validate(); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if taken, err := authRepo.IsUsernameTaken(db, input.UserName); err == nil && taken {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Username sudah dipakai")
	}

	passwordHash, err := authHelper.HashPassword(input.Password)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}
	input.Password = passwordHash

	if err := authRepo.CreateUser(db, &input); err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
			return helpers.JsonError(c, fiber.StatusBadRequest, "Email already registered")
		}
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helpers.JsonCreated(c, "Registration successful", nil)
}

/* ==========================
   LOGIN (username/email + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)

	if err := authHelper.ValidateLoginInput(input.Identifier, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// Minimal user
	userLight, err := authRepo.FindUserByEmailOrUsernameLight(db, input.Identifier)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}
	if !userLight.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}
	if err := authHelper.CheckPasswordHash(userLight.Password, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}

	// Keputusan perangkat SETELAH kredensial valid, supaya kredensial salah
	// tidak bisa dipakai menebak status perangkat akun orang lain.
	decision, err := EnforceDeviceBinding(db, userLight, DeviceIDFromRequest(c))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengevaluasi perangkat")
	}
	if decision == DeviceBlock {
		return respondDeviceBlocked(c, userLight.DeviceResetRequested)
	}

	// Full user
	userFull, err := authRepo.FindUserByID(db, userLight.ID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	return issueTokens(c, db, *userFull, decision)
}

/* ==========================
   JWT claims & response builders
========================== */

func buildRefreshClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": "refresh",
		"sub": user.ID.String(),
		"id":  user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"full_name": user.FullName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func buildLoginResponseUser(user userModel.UserModel, decision DeviceDecision) fiber.Map {
	return fiber.Map{
		"id":              user.ID,
		"user_name":       user.UserName,
		"email":           user.Email,
		"full_name":       user.FullName,
		"role":            user.Role,
		"avatar_url":      user.AvatarURL,
		"device_decision": decision,
	}
}

/* ==========================
   ISSUE TOKENS + Response
========================== */

func issueTokens(c *fiber.Ctx, db *gorm.DB, user userModel.UserModel, decision DeviceDecision) error {
	// secrets
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := nowUTC()

	accessClaims := buildAccessClaims(user, now)
	refreshClaims := buildRefreshClaims(user, now)

	// Sign tokens
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(jwtSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat access token")
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(refreshSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	// Simpan refresh token (hashed)
	tokenHash := computeRefreshHash(refreshToken, refreshSecret)
	ua, ip := c.Get("User-Agent"), c.IP()
	if err := createRefreshTokenFast(db, &authModel.RefreshToken{
		UserID:    user.ID,
		Token:     tokenHash,
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(ua),
		IP:        strptr(ip),
	}); err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan refresh token")
	}

	// Cookies
	setAuthCookies(c, accessToken, refreshToken, now)

	return helpers.JsonOK(c, "Login berhasil", fiber.Map{
		"user":         buildLoginResponseUser(user, decision),
		"access_token": accessToken,
	})
}

// Insert refresh_token dengan latency lebih rendah.
// Aman untuk token (konsekuensi: kemungkinan kecil lose jika crash tepat sesudah commit).
func createRefreshTokenFast(db *gorm.DB, rt *authModel.RefreshToken) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// turunkan sinkronisasi walau cuma untuk transaksi ini
		if err := tx.Exec(`SET LOCAL synchronous_commit = OFF`).Error; err != nil {
			log.Printf("[WARN] set synchronous_commit=OFF failed: %v", err)
		}
		return authRepo.CreateRefreshToken(tx, rt)
	})
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTTLDefault),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(refreshTTLDefault),
	})
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		IDToken string `json:"id_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	// Verifikasi token Google
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	}

	// Decode claim
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to decode ID Token")
	}
	email, name, googleID := claimSet.Email, claimSet.Name, claimSet.Sub

	// Cari by google_id
	user, err := authRepo.FindUserByGoogleID(db, googleID)
	if err != nil {
		// User belum ada -> buat baru
		newUser := userModel.UserModel{
			UserName:         name,
			FullName:         name,
			Email:            email,
			Password:         generateDummyPassword(),
			GoogleID:         &googleID,
			Role:             constants.RoleEmployee,
			SecurityQuestion: "Created by Google",
			SecurityAnswer:   "google_auth",
			CreatedAt:        nowUTC(),
			UpdatedAt:        nowUTC(),
			IsActive:         true,
		}
		if err := authRepo.CreateUser(db, &newUser); err != nil {
			low := strings.ToLower(err.Error())
			if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
				return helpers.JsonError(c, fiber.StatusBadRequest, "Email already registered")
			}
			return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to create Google user")
		}
		user = &newUser
	}

	// Full user + guard aktif
	userFull, err := authRepo.FindUserByID(db, user.ID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}
	if !userFull.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	// Login Google tunduk pada aturan perangkat yang sama dengan login biasa.
	decision, err := EnforceDeviceBinding(db, userFull, DeviceIDFromRequest(c))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengevaluasi perangkat")
	}
	if decision == DeviceBlock {
		return respondDeviceBlocked(c, userFull.DeviceResetRequested)
	}

	return issueTokens(c, db, *userFull, decision)
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	// CSRF wajib jika auth via cookie (tanpa Bearer)
	cookieAT := strings.TrimSpace(c.Cookies("access_token"))
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	usesCookieAuth := cookieAT != "" && !strings.HasPrefix(authHeader, "Bearer ")

	if usesCookieAuth {
		if err := helpers.CheckCSRFCookieHeader(c); err != nil {
			return helpers.JsonError(c, fiber.StatusForbidden, err.Error())
		}
	}

	// Ambil raw access token (cookie/Authorization)
	accessToken := helpers.GetRawAccessToken(c)

	// Hitung TTL blacklist
	ttl := resolveBlacklistTTL(accessToken)

	// Blacklist access token (idempotent)
	if accessToken != "" {
		if err := authRepo.BlacklistToken(db, accessToken, ttl); err != nil {
			log.Printf("[WARN] Failed to blacklist token: %v", err)
		}
	} else {
		log.Println("[INFO] Logout tanpa access token; lanjut clear cookies (idempotent)")
	}

	// Hapus refresh token dari DB jika ada di cookie
	if rt := helpers.GetRefreshTokenFromCookie(c); rt != "" {
		if refreshSecret, err := getRefreshSecret(); err == nil {
			_ = authRepo.DeleteRefreshTokenByHash(db, computeRefreshHash(rt, refreshSecret))
		}
	}

	// Hapus cookies
	expired := nowUTC().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token", "csrf_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: name != "csrf_token",
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}

	return helpers.JsonOK(c, "Logout successful", nil)
}

func resolveBlacklistTTL(accessToken string) time.Duration {
	ttl := 2 * time.Minute
	if v := os.Getenv("BLACKLIST_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	jwtSecret, err := getJWTSecret()
	if err != nil || accessToken == "" {
		return ttl
	}
	if tok, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	}); err == nil {
		if claims, ok := tok.Claims.(jwt.MapClaims); ok && tok.Valid {
			if exp, ok := claims["exp"].(float64); ok {
				until := time.Until(time.Unix(int64(exp), 0))
				if until > 0 {
					return until + 60*time.Second
				}
				return time.Minute
			}
		}
	}
	return ttl
}

/* ==========================
   UTIL
========================== */

func generateDummyPassword() string {
	hash, _ := authHelper.HashPassword("RandomDummyPassword123!")
	return hash
}

func CheckSecurityAnswer(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Email  string `json:"email"`
		Answer string `json:"security_answer"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := authHelper.ValidateSecurityAnswerInput(input.Email, input.Answer); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := authRepo.FindUserByEmail(db, input.Email)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	if !strings.EqualFold(strings.TrimSpace(input.Answer), strings.TrimSpace(user.SecurityAnswer)) {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Incorrect security answer")
	}

	return helpers.JsonOK(c, "Security answer correct", fiber.Map{
		"email": user.Email,
	})
}
