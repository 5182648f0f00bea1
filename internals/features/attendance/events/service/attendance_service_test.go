package service

import (
	"testing"

	eventModel "absensiku_backend/internals/features/attendance/events/model"
	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
	zoneService "absensiku_backend/internals/features/attendance/zones/service"
)

func strPtr(s string) *string { return &s }

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name string
		last *string
		want string
	}{
		{"no history starts with check_in", nil, eventModel.AttendanceStatusCheckIn},
		{"after check_out comes check_in", strPtr(eventModel.AttendanceStatusCheckOut), eventModel.AttendanceStatusCheckIn},
		{"after check_in comes check_out", strPtr(eventModel.AttendanceStatusCheckIn), eventModel.AttendanceStatusCheckOut},
		{"empty string falls back to check_in", strPtr(""), eventModel.AttendanceStatusCheckIn},
		{"unknown stored value falls back to check_in", strPtr("paused"), eventModel.AttendanceStatusCheckIn},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextStatus(tc.last); got != tc.want {
				t.Fatalf("NextStatus(%v) = %q, want %q", tc.last, got, tc.want)
			}
		})
	}
}

func TestNextStatus_Alternates(t *testing.T) {
	// Mulai tanpa riwayat, lalu setiap hasil dipakai sebagai status
	// terakhir berikutnya: harus bolak-balik in/out tanpa pernah macet.
	var last *string
	want := []string{
		eventModel.AttendanceStatusCheckIn,
		eventModel.AttendanceStatusCheckOut,
		eventModel.AttendanceStatusCheckIn,
		eventModel.AttendanceStatusCheckOut,
		eventModel.AttendanceStatusCheckIn,
	}
	for i, w := range want {
		got := NextStatus(last)
		if got != w {
			t.Fatalf("step %d: NextStatus = %q, want %q", i, got, w)
		}
		last = &got
	}
}

func TestCanAct(t *testing.T) {
	inside := &zoneService.ZoneMembership{
		Zone:           zoneModel.ZoneModel{ZoneName: "kantor"},
		DistanceMeters: 10,
		IsInside:       true,
	}
	outside := &zoneService.ZoneMembership{
		Zone:           zoneModel.ZoneModel{ZoneName: "kantor"},
		DistanceMeters: 500,
		IsInside:       false,
	}

	if CanAct(nil) {
		t.Fatalf("CanAct(nil) = true, want false")
	}
	if !CanAct(inside) {
		t.Fatalf("CanAct(inside) = false, want true")
	}
	if CanAct(outside) {
		t.Fatalf("CanAct(outside) = true, want false")
	}
}
