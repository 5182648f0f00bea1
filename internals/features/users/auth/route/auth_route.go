// file: internals/features/users/auth/route/auth_route.go
package route

import (
	controller "absensiku_backend/internals/features/users/auth/controller"
	rateLimiter "absensiku_backend/internals/middlewares"
	authMiddleware "absensiku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	// ==========================
	// PUBLIC
	// Base: /api/auth
	// ==========================
	baseAuth := app.Group("/api/auth")

	// CSRF & refresh tetap di sini (sesuai cookie path)
	baseAuth.Get("/csrf", authController.CSRF)
	baseAuth.Post("/refresh-token", authController.RefreshToken)

	// 🔓 Public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/forgot-password/check", rateLimiter.SensitiveActionRateLimiter(), authController.CheckSecurityAnswer)
	baseAuth.Post("/forgot-password/reset", rateLimiter.SensitiveActionRateLimiter(), authController.ResetPassword)

	// User terblokir tidak memegang token, jadi endpoint ini public
	// dengan bukti kredensial di body.
	baseAuth.Post("/device-reset-request", rateLimiter.SensitiveActionRateLimiter(), authController.DeviceResetRequest)

	// Logout idempotent: token opsional, cookie dibersihkan apa pun kondisinya
	baseAuth.Post("/logout", authController.Logout)

	// 🔒 Butuh sesi valid
	baseAuth.Post("/change-password", authMiddleware.AuthMiddleware(db), authController.ChangePassword)
}
