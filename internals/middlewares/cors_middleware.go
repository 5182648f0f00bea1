// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"absensiku_backend/internals/configs"
)

// AllowedOrigins mengembalikan daftar origin yang boleh memakai cookie auth.
// Origin tambahan bisa ditambah lewat CORS_EXTRA_ORIGINS (pisah koma).
func AllowedOrigins() []string {
	origins := []string{
		"http://localhost:5173",
		"http://127.0.0.1:5500",
		"https://absensiku-web-production.up.railway.app",
	}
	if extra := configs.GetEnv("CORS_EXTRA_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}

// CorsMiddleware membuat middleware CORS.
func CorsMiddleware() fiber.Handler {
	origins := AllowedOrigins()

	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-CSRF-Token, X-Device-ID",
		AllowCredentials: true,
	})
}
