package service

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	eventModel "absensiku_backend/internals/features/attendance/events/model"
	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
)

var reportBase = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func reportZone(name string, lat, lon, radius float64) zoneModel.ZoneModel {
	return zoneModel.ZoneModel{
		ZoneID:           uuid.New(),
		ZoneName:         name,
		ZoneLatitude:     lat,
		ZoneLongitude:    lon,
		ZoneRadiusMeters: radius,
		ZoneIsActive:     true,
	}
}

func reportEvent(userID uuid.UUID, status string, lat, lon float64, at time.Time) eventModel.AttendanceEventModel {
	return eventModel.AttendanceEventModel{
		AttendanceEventID:        uuid.New(),
		AttendanceEventUserID:    userID,
		AttendanceEventStatus:    status,
		AttendanceEventLatitude:  lat,
		AttendanceEventLongitude: lon,
		AttendanceEventCreatedAt: at,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSummarize_SinglePair(t *testing.T) {
	kantor := reportZone("kantor", 0, 0, 200)
	user := uuid.New()

	events := []eventModel.AttendanceEventModel{
		reportEvent(user, eventModel.AttendanceStatusCheckIn, 0.0005, 0, reportBase),
		reportEvent(user, eventModel.AttendanceStatusCheckOut, 0.0005, 0, reportBase.Add(30*time.Minute)),
	}

	got := Summarize(events, []zoneModel.ZoneModel{kantor})

	if !almostEqual(got.TotalMinutes, 30) {
		t.Fatalf("TotalMinutes = %v, want 30", got.TotalMinutes)
	}
	if len(got.Summaries) != 1 {
		t.Fatalf("len(Summaries) = %d, want 1", len(got.Summaries))
	}
	s := got.Summaries[0]
	if s.ZoneID != kantor.ZoneID.String() || s.ZoneName != "kantor" {
		t.Fatalf("summary zone = %s/%s, want %s/kantor", s.ZoneID, s.ZoneName, kantor.ZoneID)
	}
	if s.SessionCount != 1 || !almostEqual(s.TotalMinutes, 30) {
		t.Fatalf("summary = %d sessions/%v minutes, want 1/30", s.SessionCount, s.TotalMinutes)
	}

	if got.Details[0].DurationMinutes != nil {
		t.Fatalf("check_in row must not carry a duration")
	}
	if got.Details[1].DurationMinutes == nil || !almostEqual(*got.Details[1].DurationMinutes, 30) {
		t.Fatalf("paired check_out must carry the session duration")
	}
}

func TestSummarize_DoubleCheckInFirstWins(t *testing.T) {
	kantor := reportZone("kantor", 0, 0, 200)
	user := uuid.New()

	// Dua check_in beruntun lalu satu check_out: yang PERTAMA yang
	// tertutup (20 menit), yang kedua menggantung tanpa durasi.
	events := []eventModel.AttendanceEventModel{
		reportEvent(user, eventModel.AttendanceStatusCheckIn, 0.0005, 0, reportBase),
		reportEvent(user, eventModel.AttendanceStatusCheckIn, 0.0005, 0, reportBase.Add(10*time.Minute)),
		reportEvent(user, eventModel.AttendanceStatusCheckOut, 0.0005, 0, reportBase.Add(20*time.Minute)),
	}

	got := Summarize(events, []zoneModel.ZoneModel{kantor})

	if !almostEqual(got.TotalMinutes, 20) {
		t.Fatalf("TotalMinutes = %v, want 20 (pasangan dari check_in pertama)", got.TotalMinutes)
	}
	if len(got.Summaries) != 1 || got.Summaries[0].SessionCount != 1 {
		t.Fatalf("want tepat 1 sesi, got %+v", got.Summaries)
	}
	out := got.Details[2]
	if out.DurationMinutes == nil || !almostEqual(*out.DurationMinutes, 20) {
		t.Fatalf("check_out duration = %v, want 20", out.DurationMinutes)
	}
	if got.Details[1].DurationMinutes != nil {
		t.Fatalf("check_in kedua harus tetap tanpa durasi")
	}
}

func TestSummarize_OrphanCheckOut(t *testing.T) {
	kantor := reportZone("kantor", 0, 0, 200)
	user := uuid.New()

	events := []eventModel.AttendanceEventModel{
		reportEvent(user, eventModel.AttendanceStatusCheckOut, 0.0005, 0, reportBase),
	}

	got := Summarize(events, []zoneModel.ZoneModel{kantor})

	if got.TotalMinutes != 0 || len(got.Summaries) != 0 {
		t.Fatalf("orphan check_out must not create a session, got %+v", got)
	}
	if got.Details[0].DurationMinutes != nil {
		t.Fatalf("orphan check_out duration must be nil")
	}
}

func TestSummarize_UnknownLocation(t *testing.T) {
	kantor := reportZone("kantor", 0, 0, 200)
	user := uuid.New()

	// Koordinat jauh dari semua zona, misal zonanya sudah dihapus.
	events := []eventModel.AttendanceEventModel{
		reportEvent(user, eventModel.AttendanceStatusCheckIn, 0.5, 0.5, reportBase),
		reportEvent(user, eventModel.AttendanceStatusCheckOut, 0.5, 0.5, reportBase.Add(15*time.Minute)),
	}

	got := Summarize(events, []zoneModel.ZoneModel{kantor})

	for _, d := range got.Details {
		if d.ZoneID != UnknownZoneID || d.ZoneName != UnknownZoneName {
			t.Fatalf("detail zone = %s/%s, want %s/%s", d.ZoneID, d.ZoneName, UnknownZoneID, UnknownZoneName)
		}
	}
	if len(got.Summaries) != 1 || got.Summaries[0].ZoneID != UnknownZoneID {
		t.Fatalf("session should land in the unknown bucket, got %+v", got.Summaries)
	}
	if !almostEqual(got.Summaries[0].TotalMinutes, 15) {
		t.Fatalf("unknown bucket minutes = %v, want 15", got.Summaries[0].TotalMinutes)
	}
}

func TestSummarize_SessionKeyedToCheckInZone(t *testing.T) {
	kantor := reportZone("kantor", 0, 0, 200)
	gudang := reportZone("gudang", 0.01, 0, 200)
	user := uuid.New()

	// Check-in di kantor, check-out di gudang: seluruh durasi milik kantor.
	events := []eventModel.AttendanceEventModel{
		reportEvent(user, eventModel.AttendanceStatusCheckIn, 0.0005, 0, reportBase),
		reportEvent(user, eventModel.AttendanceStatusCheckOut, 0.01, 0, reportBase.Add(40*time.Minute)),
	}

	got := Summarize(events, []zoneModel.ZoneModel{kantor, gudang})

	if len(got.Summaries) != 1 {
		t.Fatalf("len(Summaries) = %d, want 1", len(got.Summaries))
	}
	if got.Summaries[0].ZoneID != kantor.ZoneID.String() {
		t.Fatalf("session attributed to %s, want kantor", got.Summaries[0].ZoneName)
	}
	if !almostEqual(got.Summaries[0].TotalMinutes, 40) {
		t.Fatalf("kantor minutes = %v, want 40", got.Summaries[0].TotalMinutes)
	}
	// Baris check_out tetap menampilkan zona tempat dia terjadi
	if got.Details[1].ZoneID != gudang.ZoneID.String() {
		t.Fatalf("check_out detail zone = %s, want gudang", got.Details[1].ZoneName)
	}
}

func TestSummarize_SummariesSortedDescByMinutes(t *testing.T) {
	kantor := reportZone("kantor", 0, 0, 200)
	gudang := reportZone("gudang", 0.01, 0, 200)
	user := uuid.New()

	events := []eventModel.AttendanceEventModel{
		// 30 menit di kantor
		reportEvent(user, eventModel.AttendanceStatusCheckIn, 0.0005, 0, reportBase),
		reportEvent(user, eventModel.AttendanceStatusCheckOut, 0.0005, 0, reportBase.Add(30*time.Minute)),
		// 60 menit di gudang
		reportEvent(user, eventModel.AttendanceStatusCheckIn, 0.01, 0, reportBase.Add(60*time.Minute)),
		reportEvent(user, eventModel.AttendanceStatusCheckOut, 0.01, 0, reportBase.Add(120*time.Minute)),
	}

	got := Summarize(events, []zoneModel.ZoneModel{kantor, gudang})

	if len(got.Summaries) != 2 {
		t.Fatalf("len(Summaries) = %d, want 2", len(got.Summaries))
	}
	if got.Summaries[0].ZoneName != "gudang" || got.Summaries[1].ZoneName != "kantor" {
		t.Fatalf("summaries not sorted desc by minutes: %+v", got.Summaries)
	}
	if !almostEqual(got.TotalMinutes, 90) {
		t.Fatalf("TotalMinutes = %v, want 90", got.TotalMinutes)
	}
}

func TestSummarize_PairingIsPerUser(t *testing.T) {
	kantor := reportZone("kantor", 0, 0, 200)
	userA := uuid.New()
	userB := uuid.New()

	// Riwayat dua user saling silang; pairing tidak boleh nyebrang user.
	events := []eventModel.AttendanceEventModel{
		reportEvent(userA, eventModel.AttendanceStatusCheckIn, 0.0005, 0, reportBase),
		reportEvent(userB, eventModel.AttendanceStatusCheckIn, 0.0005, 0, reportBase.Add(5*time.Minute)),
		reportEvent(userA, eventModel.AttendanceStatusCheckOut, 0.0005, 0, reportBase.Add(30*time.Minute)),
		reportEvent(userB, eventModel.AttendanceStatusCheckOut, 0.0005, 0, reportBase.Add(35*time.Minute)),
	}

	got := Summarize(events, []zoneModel.ZoneModel{kantor})

	if !almostEqual(got.TotalMinutes, 60) {
		t.Fatalf("TotalMinutes = %v, want 60 (30 per user)", got.TotalMinutes)
	}
	outA := got.Details[2]
	outB := got.Details[3]
	if outA.DurationMinutes == nil || !almostEqual(*outA.DurationMinutes, 30) {
		t.Fatalf("user A duration = %v, want 30", outA.DurationMinutes)
	}
	if outB.DurationMinutes == nil || !almostEqual(*outB.DurationMinutes, 30) {
		t.Fatalf("user B duration = %v, want 30", outB.DurationMinutes)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil, nil)
	if len(got.Details) != 0 || len(got.Summaries) != 0 || got.TotalMinutes != 0 {
		t.Fatalf("empty input must produce an empty result, got %+v", got)
	}
}
