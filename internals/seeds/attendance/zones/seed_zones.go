package zone

import (
	"encoding/json"
	"log"
	"os"

	"absensiku_backend/internals/constants"
	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
	userModel "absensiku_backend/internals/features/users/user/model"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ZoneSeed struct {
	ZoneName         string   `json:"zone_name"`
	ZoneDescription  string   `json:"zone_description"`
	ZoneLatitude     float64  `json:"zone_latitude"`
	ZoneLongitude    float64  `json:"zone_longitude"`
	ZoneRadiusMeters float64  `json:"zone_radius_meters"`
	ZoneTags         []string `json:"zone_tags"`
}

// SeedZonesFromJSON mengisi zona absen awal. Owner zona diambil dari
// admin pertama di tabel users, jadi jalankan setelah seed/ensure admin.
func SeedZonesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file zona:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []ZoneSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	var admin userModel.UserModel
	if err := db.Where("role = ?", constants.RoleAdmin).
		Order("created_at ASC").
		First(&admin).Error; err != nil {
		log.Println("❌ Tidak ada admin untuk dijadikan owner zona, seed zona dilewati.")
		return
	}

	for _, data := range inputs {
		var existing zoneModel.ZoneModel
		if err := db.Where("zone_name = ?", data.ZoneName).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Zona '%s' sudah ada, dilewati.", data.ZoneName)
			continue
		}

		newZone := zoneModel.ZoneModel{
			ZoneName:         data.ZoneName,
			ZoneDescription:  data.ZoneDescription,
			ZoneLatitude:     data.ZoneLatitude,
			ZoneLongitude:    data.ZoneLongitude,
			ZoneRadiusMeters: data.ZoneRadiusMeters,
			ZoneOwnerUserID:  admin.ID,
			ZoneTags:         pq.StringArray(data.ZoneTags),
			ZoneIsActive:     true,
		}

		if err := db.Create(&newZone).Error; err != nil {
			log.Printf("❌ Gagal insert zona '%s': %v", data.ZoneName, err)
		} else {
			log.Printf("✅ Berhasil insert zona '%s'", data.ZoneName)
		}
	}
}
