// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensiku_backend/internals/constants"
	eventRoute "absensiku_backend/internals/features/attendance/events/route"
	reportRoute "absensiku_backend/internals/features/attendance/reports/route"
	zoneRoute "absensiku_backend/internals/features/attendance/zones/route"
	authController "absensiku_backend/internals/features/users/auth/controller"
	authRoute "absensiku_backend/internals/features/users/auth/route"
	userRoute "absensiku_backend/internals/features/users/user/route"
	rateLimiter "absensiku_backend/internals/middlewares"
	authMiddleware "absensiku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== BASE =====================
	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== USER (/api/u) =====================
	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u",
		rateLimiter.GlobalRateLimiter(),
		authMiddleware.AuthMiddleware(db),
	)

	// profil diri
	me := authController.NewAuthController(db)
	user.Get("/me", me.Me)
	user.Put("/me/name", me.UpdateUserName)
	user.Put("/me/avatar", me.UpdateAvatar)
	user.Delete("/me/avatar", me.DeleteAvatar)

	zoneRoute.ZonesUserRoutes(user, db)
	eventRoute.AttendanceUserRoutes(user, db)
	reportRoute.ReportsUserRoutes(user, db)

	// ===================== ADMIN (/api/a) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		rateLimiter.GlobalRateLimiter(),
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("manajemen absensi"), constants.AdminOnly),
	)

	userRoute.UsersAdminRoutes(admin, db)
	zoneRoute.ZonesAdminRoutes(admin, db)
	eventRoute.AttendanceAdminRoutes(admin, db)
	reportRoute.ReportsAdminRoutes(admin, db)
}
