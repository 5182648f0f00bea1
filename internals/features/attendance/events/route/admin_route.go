// file: internals/features/attendance/events/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventCtl "absensiku_backend/internals/features/attendance/events/controller"
)

// AttendanceAdminRoutes — monitoring event semua user dengan filter.
func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := eventCtl.NewAttendanceController(db)

	admin.Get("/attendance", ctl.AdminList)
}
