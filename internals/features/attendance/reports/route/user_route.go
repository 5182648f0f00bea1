// file: internals/features/attendance/reports/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportCtl "absensiku_backend/internals/features/attendance/reports/controller"
)

// ReportsUserRoutes — laporan milik sendiri (ringkasan + export CSV).
func ReportsUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := reportCtl.NewReportController(db)
	g := user.Group("/reports")

	g.Get("/summary", ctl.MySummary)
	g.Get("/export", ctl.MyExport)
}
