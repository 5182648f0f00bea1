package service

import (
	"math"
	"testing"

	"github.com/google/uuid"

	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
)

func makeZone(name string, lat, lon, radius float64) zoneModel.ZoneModel {
	return zoneModel.ZoneModel{
		ZoneID:           uuid.New(),
		ZoneName:         name,
		ZoneLatitude:     lat,
		ZoneLongitude:    lon,
		ZoneRadiusMeters: radius,
		ZoneIsActive:     true,
	}
}

func TestDistanceMeters(t *testing.T) {
	t.Run("identical points have zero distance", func(t *testing.T) {
		points := []Coordinate{
			{0, 0},
			{-6.2, 106.816666},
			{89.9, 179.9},
			{-89.9, -179.9},
		}
		for _, p := range points {
			if d := DistanceMeters(p, p); d != 0 {
				t.Fatalf("DistanceMeters(%v, %v) = %v, want 0", p, p, d)
			}
		}
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		pairs := [][2]Coordinate{
			{{0, 0}, {1, 1}},
			{{-6.2, 106.816666}, {-7.797068, 110.370529}},
			{{51.5074, -0.1278}, {40.7128, -74.0060}},
		}
		for _, pair := range pairs {
			ab := DistanceMeters(pair[0], pair[1])
			ba := DistanceMeters(pair[1], pair[0])
			if ab != ba {
				t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
			}
			if ab < 0 {
				t.Fatalf("distance must be non-negative, got %v", ab)
			}
		}
	})

	t.Run("one degree of longitude on the equator", func(t *testing.T) {
		// 2*pi*R/360 dengan R=6371000
		want := 2 * math.Pi * EarthRadiusMeters / 360
		got := DistanceMeters(Coordinate{0, 0}, Coordinate{0, 1})
		if math.Abs(got-want) > 0.5 {
			t.Fatalf("equator degree distance = %v, want ~%v", got, want)
		}
	})

	t.Run("antipodal points do not blow up", func(t *testing.T) {
		got := DistanceMeters(Coordinate{0, 0}, Coordinate{0, 180})
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("antipodal distance must be finite, got %v", got)
		}
		half := math.Pi * EarthRadiusMeters
		if math.Abs(got-half) > 1 {
			t.Fatalf("antipodal distance = %v, want ~%v", got, half)
		}
	})
}

func TestRankZones(t *testing.T) {
	point := Coordinate{0, 0}

	t.Run("sorted non-decreasing by distance", func(t *testing.T) {
		zones := []zoneModel.ZoneModel{
			makeZone("far", 1, 1, 50),
			makeZone("near", 0.0001, 0, 50),
			makeZone("mid", 0.01, 0, 50),
		}
		ranked := RankZones(point, zones)
		if len(ranked) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(ranked))
		}
		for i := 1; i < len(ranked); i++ {
			if ranked[i].DistanceMeters < ranked[i-1].DistanceMeters {
				t.Fatalf("ranking not sorted at index %d: %v then %v",
					i, ranked[i-1].DistanceMeters, ranked[i].DistanceMeters)
			}
		}
		if ranked[0].Zone.ZoneName != "near" {
			t.Fatalf("expected zone 'near' first, got %q", ranked[0].Zone.ZoneName)
		}
	})

	t.Run("equal distances keep input order", func(t *testing.T) {
		zones := []zoneModel.ZoneModel{
			makeZone("first", 0.001, 0, 200),
			makeZone("second", 0.001, 0, 200),
		}
		ranked := RankZones(point, zones)
		if ranked[0].Zone.ZoneName != "first" || ranked[1].Zone.ZoneName != "second" {
			t.Fatalf("tie-break must preserve input order, got %q then %q",
				ranked[0].Zone.ZoneName, ranked[1].Zone.ZoneName)
		}
	})

	t.Run("zone center is always inside its own zone", func(t *testing.T) {
		z := makeZone("hq", -6.2, 106.816666, 1)
		ranked := RankZones(Coordinate{z.ZoneLatitude, z.ZoneLongitude}, []zoneModel.ZoneModel{z})
		if !ranked[0].IsInside {
			t.Fatalf("center must be inside its own zone, distance=%v", ranked[0].DistanceMeters)
		}
	})

	t.Run("empty zone list yields empty ranking", func(t *testing.T) {
		ranked := RankZones(point, nil)
		if len(ranked) != 0 {
			t.Fatalf("expected empty ranking, got %d entries", len(ranked))
		}
		if sel := AutoSelect(ranked); sel != nil {
			t.Fatalf("expected nil auto-selection for empty ranking, got %+v", sel)
		}
	})

	t.Run("boundary classification matches inclusive comparison", func(t *testing.T) {
		// Titik (0.0009, 0) berjarak ~100m dari (0,0); klasifikasinya harus
		// konsisten dengan perbandingan <= radius, berapa pun nilai persisnya.
		z := makeZone("boundary", 0, 0, 100)
		ranked := RankZones(Coordinate{0.0009, 0}, []zoneModel.ZoneModel{z})
		d := ranked[0].DistanceMeters
		if math.Abs(d-100) > 1 {
			t.Fatalf("expected ~100m from center, got %v", d)
		}
		if ranked[0].IsInside != (d <= z.ZoneRadiusMeters) {
			t.Fatalf("isInside=%v inconsistent with distance %v vs radius %v",
				ranked[0].IsInside, d, z.ZoneRadiusMeters)
		}

		// Tepat di radius = masih di dalam.
		wide := makeZone("wide", 0, 0, d)
		rankedWide := RankZones(Coordinate{0.0009, 0}, []zoneModel.ZoneModel{wide})
		if !rankedWide[0].IsInside {
			t.Fatalf("point exactly at radius must be inside (inclusive boundary)")
		}
	})
}

func TestAutoSelect(t *testing.T) {
	point := Coordinate{0, 0}

	t.Run("nearest inside zone wins among overlaps", func(t *testing.T) {
		zones := []zoneModel.ZoneModel{
			makeZone("big-far", 0.002, 0, 100000),
			makeZone("small-near", 0.0001, 0, 100),
		}
		ranked := RankZones(point, zones)
		sel := AutoSelect(ranked)
		if sel == nil {
			t.Fatalf("expected a selection, got nil")
		}
		if sel.Zone.ZoneName != "small-near" {
			t.Fatalf("expected nearest inside zone 'small-near', got %q", sel.Zone.ZoneName)
		}
	})

	t.Run("skips nearer zones the point is outside of", func(t *testing.T) {
		zones := []zoneModel.ZoneModel{
			makeZone("near-but-tiny", 0.0005, 0, 1),
			makeZone("farther-but-contains", 0.002, 0, 100000),
		}
		ranked := RankZones(point, zones)
		sel := AutoSelect(ranked)
		if sel == nil {
			t.Fatalf("expected a selection, got nil")
		}
		if sel.Zone.ZoneName != "farther-but-contains" {
			t.Fatalf("expected 'farther-but-contains', got %q", sel.Zone.ZoneName)
		}
	})

	t.Run("no containing zone yields nil", func(t *testing.T) {
		zones := []zoneModel.ZoneModel{
			makeZone("a", 1, 1, 10),
			makeZone("b", 2, 2, 10),
		}
		if sel := AutoSelect(RankZones(point, zones)); sel != nil {
			t.Fatalf("expected nil selection, got %+v", sel)
		}
	})
}
