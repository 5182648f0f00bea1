// file: internals/helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"absensiku_backend/internals/constants"
)

// Raw JWT disimpan di Locals oleh middleware supaya bisa dipakai ulang (logout dsb.)
const LocRawToken = "raw_token"

// GetRawAccessToken mengembalikan access token dari:
// 1) cookie "access_token"
// 2) Locals("raw_token") yang diset middleware
// 3) Authorization header "Bearer <token>"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
		return v
	}
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get("Authorization")
	if len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

func GetRefreshTokenFromCookie(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Cookies("refresh_token"))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}

// CSRF check bila request membawa cookie (double-submit token):
// header X-CSRF-Token harus sama dengan cookie csrf_token
func CheckCSRFCookieHeader(c *fiber.Ctx) error {
	csrfCookie := strings.TrimSpace(c.Cookies("csrf_token"))
	if csrfCookie == "" {
		return fiber.NewError(fiber.StatusForbidden, "CSRF token missing (cookie)")
	}
	csrfHeader := strings.TrimSpace(c.Get("X-CSRF-Token"))
	if csrfHeader == "" {
		return fiber.NewError(fiber.StatusForbidden, "CSRF token missing (header)")
	}
	if csrfCookie != csrfHeader {
		return fiber.NewError(fiber.StatusForbidden, "CSRF token mismatch")
	}
	return nil
}

/* ===== Klaim dari Locals (diisi AuthMiddleware) ===== */

// GetUserIDFromToken mengambil user_id yang disimpan AuthMiddleware.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v, ok := c.Locals("user_id").(string)
	if !ok || v == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid UUID format")
	}
	return id, nil
}

func GetRoleFromToken(c *fiber.Ctx) string {
	if v, ok := c.Locals("userRole").(string); ok {
		return v
	}
	return ""
}

func IsAdminFromToken(c *fiber.Ctx) bool {
	return GetRoleFromToken(c) == constants.RoleAdmin
}
