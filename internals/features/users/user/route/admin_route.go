package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensiku_backend/internals/features/users/user/controller"
)

// UsersAdminRoutes — manajemen user oleh admin (grup /api/a).
func UsersAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewUserController(db)

	g := admin.Group("/users")

	// rute statis didaftarkan sebelum :id agar tidak tertangkap param
	g.Get("/search", ctl.SearchUsers)
	g.Get("/device-resets", ctl.ListDeviceResets)

	g.Get("/", ctl.GetUsers)
	g.Post("/", ctl.CreateUser)
	g.Get("/:id", ctl.GetUser)
	g.Put("/:id", ctl.UpdateUser)
	g.Delete("/:id", ctl.DeleteUser)
	g.Post("/:id/device-reset", ctl.GrantDeviceReset)
}
