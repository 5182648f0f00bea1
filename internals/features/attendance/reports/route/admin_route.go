// file: internals/features/attendance/reports/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportCtl "absensiku_backend/internals/features/attendance/reports/controller"
)

// ReportsAdminRoutes — laporan lintas user (opsional difilter user_id).
func ReportsAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := reportCtl.NewReportController(db)
	g := admin.Group("/reports")

	g.Get("/summary", ctl.AdminSummary)
	g.Get("/export", ctl.AdminExport)
}
