package seeds

import (
	zones "absensiku_backend/internals/seeds/attendance/zones"
	users "absensiku_backend/internals/seeds/users"

	"gorm.io/gorm"
)

// RunAllSeeds mengisi data awal untuk lingkungan dev/demo.
// Semua seed idempotent (skip jika sudah ada), urutan penting:
// user dulu, zona butuh admin sebagai owner.
func RunAllSeeds(db *gorm.DB) {
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
	zones.SeedZonesFromJSON(db, "internals/seeds/attendance/zones/data_zones.json")
}
