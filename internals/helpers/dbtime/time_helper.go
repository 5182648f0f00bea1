// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Nama locals yang boleh diisi middleware/handler untuk override timezone per request
const (
	LocTimezone = "app_timezone" // string, misal "Asia/Jakarta"
	LocLocation = "app_loc"      // *time.Location
)

// GetLocation mengembalikan *time.Location untuk batas hari laporan & jam absen:
// 1) Prioritas: c.Locals("app_loc") yang diisi middleware
// 2) Kalau belum ada: coba baca "app_timezone" (string) lalu LoadLocation
// 3) Env APP_TIMEZONE
// 4) Fallback: Asia/Jakarta
// 5) Fallback terakhir: time.UTC
func GetLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return defaultLocation()
	}

	if v := c.Locals(LocLocation); v != nil {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}

	if v := c.Locals(LocTimezone); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			if loc, err := time.LoadLocation(strings.TrimSpace(s)); err == nil {
				// cache ke locals biar next call lebih murah
				c.Locals(LocLocation, loc)
				return loc
			}
		}
	}

	loc := defaultLocation()
	c.Locals(LocLocation, loc)
	return loc
}

func defaultLocation() *time.Location {
	if tz := strings.TrimSpace(os.Getenv("APP_TIMEZONE")); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.UTC
}

// ToLocalTime mengonversi waktu (biasanya dari DB = UTC) ke timezone aplikasi.
// Kalau t.IsZero() → dikembalikan apa adanya.
func ToLocalTime(c *fiber.Ctx, t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	loc := GetLocation(c)
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// Versi pointer, biar gampang dipakai di DTO yg pakai *time.Time
func ToLocalTimePtr(c *fiber.Ctx, t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToLocalTime(c, *t)
	return &v
}

// NowLocal: "sekarang" di timezone aplikasi
func NowLocal(c *fiber.Ctx) time.Time {
	return time.Now().In(GetLocation(c))
}

// DayBounds memetakan tanggal "YYYY-MM-DD" (atau waktu apa pun di hari itu)
// ke rentang [awal hari, awal hari berikutnya) dalam timezone aplikasi.
// Dipakai aggregator laporan supaya batas hari mengikuti zona kerja,
// bukan UTC.
func DayBounds(c *fiber.Ctx, t time.Time) (time.Time, time.Time) {
	loc := GetLocation(c)
	lt := t.In(loc)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseDateRangeQuery membaca ?from=YYYY-MM-DD&to=YYYY-MM-DD dan
// memetakannya ke rentang [start, end) dalam timezone aplikasi.
// Keduanya opsional (nil kalau kosong); to mencakup satu hari penuh.
func ParseDateRangeQuery(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	loc := GetLocation(c)

	var fromPtr, toPtr *time.Time

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("parameter from tidak valid, pakai format YYYY-MM-DD")
		}
		start, _ := DayBounds(c, t)
		fromPtr = &start
	}

	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("parameter to tidak valid, pakai format YYYY-MM-DD")
		}
		_, end := DayBounds(c, t)
		toPtr = &end
	}

	return fromPtr, toPtr, nil
}
