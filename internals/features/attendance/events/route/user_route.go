// file: internals/features/attendance/events/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventCtl "absensiku_backend/internals/features/attendance/events/controller"
)

// AttendanceUserRoutes — clock, status, dan riwayat milik sendiri.
// Contoh mount dari caller:
//
//	user := app.Group("/api/u", ...middleware auth)
//	route.AttendanceUserRoutes(user, db)
func AttendanceUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := eventCtl.NewAttendanceController(db)
	g := user.Group("/attendance")

	g.Post("/clock", ctl.Clock)
	g.Get("/status", ctl.Status)
	g.Get("/history", ctl.History)
}
