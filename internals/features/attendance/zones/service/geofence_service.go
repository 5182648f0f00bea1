package service

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
)

/* ==========================
   GEO MATH
========================== */

// EarthRadiusMeters untuk formula haversine.
const EarthRadiusMeters = 6371000.0

// Coordinate adalah pasangan derajat WGS84. Immutable by convention.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceMeters menghitung jarak great-circle (haversine) dua koordinat.
// Simetris, nol untuk titik identik, selalu >= 0. Bentuk atan2 dipakai
// karena tetap stabil untuk titik hampir antipodal.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

/* ==========================
   ZONE RESOLVER
========================== */

// ZoneMembership: hasil evaluasi satu zona terhadap satu titik.
// Derived, tidak pernah disimpan.
type ZoneMembership struct {
	Zone           zoneModel.ZoneModel `json:"zone"`
	DistanceMeters float64             `json:"distance_meters"`
	IsInside       bool                `json:"is_inside"`
}

// RankZones mengevaluasi semua zona terhadap satu titik dan mengurutkan
// naik berdasarkan jarak. Batas zona inklusif: tepat di radius masih
// dianggap di dalam. Untuk jarak yang sama urutan input dipertahankan
// supaya hasilnya deterministik.
func RankZones(point Coordinate, zones []zoneModel.ZoneModel) []ZoneMembership {
	ranked := make([]ZoneMembership, 0, len(zones))
	for _, z := range zones {
		d := DistanceMeters(point, Coordinate{Latitude: z.ZoneLatitude, Longitude: z.ZoneLongitude})
		ranked = append(ranked, ZoneMembership{
			Zone:           z,
			DistanceMeters: d,
			IsInside:       d <= z.ZoneRadiusMeters,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMeters < ranked[j].DistanceMeters
	})
	return ranked
}

// AutoSelect memilih zona terdekat yang memuat titik: entry pertama
// dengan IsInside == true, atau nil kalau tidak ada. Zona tumpang
// tindih jadi deterministik tanpa butuh metadata prioritas.
func AutoSelect(ranked []ZoneMembership) *ZoneMembership {
	for i := range ranked {
		if ranked[i].IsInside {
			return &ranked[i]
		}
	}
	return nil
}

/* ==========================
   VISIBLE ZONES (per user)
========================== */

// VisibleZones mengembalikan zona yang relevan untuk satu user.
// Admin melihat semua zona aktif. Karyawan dengan keanggotaan zona hanya
// melihat zona yang ditautkan; tanpa keanggotaan, semua zona aktif.
func VisibleZones(db *gorm.DB, userID uuid.UUID, isAdmin bool) ([]zoneModel.ZoneModel, error) {
	var zones []zoneModel.ZoneModel

	if isAdmin {
		if err := db.
			Where("zone_is_active = ?", true).
			Order("zone_created_at ASC").
			Find(&zones).Error; err != nil {
			return nil, err
		}
		return zones, nil
	}

	var memberCount int64
	if err := db.Model(&zoneModel.ZoneMemberModel{}).
		Where("zone_member_user_id = ?", userID).
		Count(&memberCount).Error; err != nil {
		return nil, err
	}

	q := db.Where("zone_is_active = ?", true).Order("zone_created_at ASC")
	if memberCount > 0 {
		q = q.Where(
			"zone_id IN (SELECT zone_member_zone_id FROM zone_members WHERE zone_member_user_id = ?)",
			userID,
		)
	}
	if err := q.Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// ResolveForUser memuat zona yang terlihat lalu merankingnya terhadap
// titik yang diberikan. Dipakai endpoint resolve dan guard absen.
func ResolveForUser(db *gorm.DB, userID uuid.UUID, isAdmin bool, point Coordinate) ([]ZoneMembership, *ZoneMembership, error) {
	zones, err := VisibleZones(db, userID, isAdmin)
	if err != nil {
		return nil, nil, err
	}
	ranked := RankZones(point, zones)
	return ranked, AutoSelect(ranked), nil
}
