// file: internals/features/attendance/zones/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	zoneCtl "absensiku_backend/internals/features/attendance/zones/controller"
)

// ZonesAdminRoutes — route khusus ADMIN (CRUD zona + anggota).
// Contoh mount dari caller:
//
//	admin := app.Group("/api/a", ...middleware admin)
//	route.ZonesAdminRoutes(admin, db)
func ZonesAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := zoneCtl.NewZoneController(db)
	g := admin.Group("/zones")

	// CRUD zona
	g.Post("/", ctl.CreateZone)
	g.Get("/", ctl.ListZones)
	g.Get("/:id", ctl.GetZone)
	g.Put("/:id", ctl.UpdateZone)
	g.Delete("/:id", ctl.DeleteZone)

	// Anggota zona
	g.Post("/:id/members", ctl.AddZoneMembers)
	g.Delete("/:id/members/:user_id", ctl.RemoveZoneMember)
}
