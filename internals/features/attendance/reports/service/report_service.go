package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "absensiku_backend/internals/features/attendance/events/model"
	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
	zoneService "absensiku_backend/internals/features/attendance/zones/service"
)

/* ==========================
   AGGREGATOR LAPORAN
========================== */

// Bucket sintetis untuk event yang tidak masuk zona mana pun
// (misal zonanya sudah dihapus, atau absen lama sebelum zona dibuat).
const (
	UnknownZoneID   = "unknown"
	UnknownZoneName = "Unknown Location"
)

// EnrichedEvent: satu baris detail laporan. ZoneID berupa string karena
// bucket "unknown" bukan UUID. DurationMinutes hanya terisi di baris
// check_out yang berpasangan.
type EnrichedEvent struct {
	EventID         uuid.UUID `json:"event_id"`
	UserID          uuid.UUID `json:"user_id"`
	Status          string    `json:"status"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	ZoneID          string    `json:"zone_id"`
	ZoneName        string    `json:"zone_name"`
	DurationMinutes *float64  `json:"duration_minutes"`
	Timestamp       time.Time `json:"timestamp"`
}

type ZoneSummary struct {
	ZoneID       string  `json:"zone_id"`
	ZoneName     string  `json:"zone_name"`
	TotalMinutes float64 `json:"total_minutes"`
	SessionCount int     `json:"session_count"`
}

type ReportResult struct {
	Details      []EnrichedEvent `json:"details"`
	Summaries    []ZoneSummary   `json:"summaries"`
	TotalMinutes float64         `json:"total_minutes"`
}

// Summarize memasangkan check_in/check_out secara kronologis lalu
// mengagregasi durasi per zona. events harus urut naik menurut waktu.
//
// Pairing FIFO: sebuah check_out menutup check_in terbuka yang PALING
// AWAL, tidak harus yang persis sebelumnya. Dua check_in beruntun berarti
// yang pertama tertutup duluan dan yang kedua menggantung. check_out
// tanpa pasangan tampil dengan durasi nil. Sesi dihitung ke zona tempat
// check_in-nya terjadi, di-resolve ulang dari koordinat mentah.
//
// Fungsi ini heuristik: riwayat kotor atau saling silang tidak pernah
// menghasilkan error, hasilnya sekadar mengikuti aturan di atas.
func Summarize(events []eventModel.AttendanceEventModel, zones []zoneModel.ZoneModel) ReportResult {
	details := make([]EnrichedEvent, 0, len(events))

	// 1) Enrich: zona per event dari koordinat tersimpan
	for i := range events {
		zid, zname := resolveZoneBucket(&events[i], zones)
		details = append(details, EnrichedEvent{
			EventID:   events[i].AttendanceEventID,
			UserID:    events[i].AttendanceEventUserID,
			Status:    events[i].AttendanceEventStatus,
			Latitude:  events[i].AttendanceEventLatitude,
			Longitude: events[i].AttendanceEventLongitude,
			ZoneID:    zid,
			ZoneName:  zname,
			Timestamp: events[i].AttendanceEventCreatedAt,
		})
	}

	// 2) Pairing FIFO per user
	type pairRef struct{ in, out int }
	pairs := make([]pairRef, 0, len(details)/2)
	openByUser := make(map[uuid.UUID][]int)
	var totalMinutes float64

	for i := range details {
		uid := details[i].UserID
		switch details[i].Status {
		case eventModel.AttendanceStatusCheckIn:
			openByUser[uid] = append(openByUser[uid], i)
		case eventModel.AttendanceStatusCheckOut:
			open := openByUser[uid]
			if len(open) == 0 {
				continue // check_out yatim
			}
			inIdx := open[0]
			openByUser[uid] = open[1:]

			d := details[i].Timestamp.Sub(details[inIdx].Timestamp).Minutes()
			details[i].DurationMinutes = &d
			pairs = append(pairs, pairRef{in: inIdx, out: i})
			totalMinutes += d
		}
	}

	// 3) Agregasi per zona check_in
	sumIdx := make(map[string]int)
	summaries := make([]ZoneSummary, 0)
	for _, p := range pairs {
		key := details[p.in].ZoneID
		idx, ok := sumIdx[key]
		if !ok {
			idx = len(summaries)
			sumIdx[key] = idx
			summaries = append(summaries, ZoneSummary{
				ZoneID:   key,
				ZoneName: details[p.in].ZoneName,
			})
		}
		summaries[idx].TotalMinutes += *details[p.out].DurationMinutes
		summaries[idx].SessionCount++
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalMinutes > summaries[j].TotalMinutes
	})

	return ReportResult{
		Details:      details,
		Summaries:    summaries,
		TotalMinutes: totalMinutes,
	}
}

func resolveZoneBucket(ev *eventModel.AttendanceEventModel, zones []zoneModel.ZoneModel) (string, string) {
	point := zoneService.Coordinate{
		Latitude:  ev.AttendanceEventLatitude,
		Longitude: ev.AttendanceEventLongitude,
	}
	ranked := zoneService.RankZones(point, zones)
	if sel := zoneService.AutoSelect(ranked); sel != nil {
		return sel.Zone.ZoneID.String(), sel.Zone.ZoneName
	}
	return UnknownZoneID, UnknownZoneName
}

/* ==========================
   LOADER
========================== */

// LoadEvents membaca event urut naik untuk di-summarize.
// userID nil berarti semua user (laporan admin lintas user).
func LoadEvents(db *gorm.DB, userID *uuid.UUID, from, to *time.Time) ([]eventModel.AttendanceEventModel, error) {
	q := db.Model(&eventModel.AttendanceEventModel{})
	if userID != nil {
		q = q.Where("attendance_event_user_id = ?", *userID)
	}
	if from != nil {
		q = q.Where("attendance_event_created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("attendance_event_created_at < ?", *to)
	}

	var events []eventModel.AttendanceEventModel
	if err := q.Order("attendance_event_created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// LoadZonesForReport: semua zona yang belum dihapus, termasuk yang sedang
// nonaktif. Zona nonaktif tetap memiliki riwayatnya; hanya zona terhapus
// yang jatuh ke bucket Unknown Location.
func LoadZonesForReport(db *gorm.DB) ([]zoneModel.ZoneModel, error) {
	var zones []zoneModel.ZoneModel
	if err := db.Order("zone_created_at ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
