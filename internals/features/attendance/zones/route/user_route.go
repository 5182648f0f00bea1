// file: internals/features/attendance/zones/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	zoneCtl "absensiku_backend/internals/features/attendance/zones/controller"
)

// ZonesUserRoutes — route USER (lihat zona + evaluasi koordinat).
// Contoh mount dari caller:
//
//	user := app.Group("/api/u", ...middleware auth)
//	route.ZonesUserRoutes(user, db)
func ZonesUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := zoneCtl.NewZoneController(db)
	g := user.Group("/zones")

	g.Get("/", ctl.ListVisibleZones)
	g.Post("/resolve", ctl.ResolveZones)
}
