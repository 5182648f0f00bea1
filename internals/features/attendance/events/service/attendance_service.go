package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "absensiku_backend/internals/features/attendance/events/model"
	zoneService "absensiku_backend/internals/features/attendance/zones/service"
)

/* ==========================
   STATE MACHINE ABSENSI
========================== */

// NextStatus menentukan aksi berikutnya dari status event terakhir.
// Fungsi total: nil, "check_out", dan nilai tak dikenal semuanya
// menghasilkan "check_in"; hanya "check_in" yang lanjut ke "check_out".
func NextStatus(last *string) string {
	if last != nil && *last == eventModel.AttendanceStatusCheckIn {
		return eventModel.AttendanceStatusCheckOut
	}
	return eventModel.AttendanceStatusCheckIn
}

// CanAct: user hanya boleh absen kalau auto-select menghasilkan zona
// yang memuat koordinatnya. Dievaluasi terhadap koordinat segar dari
// request, tidak pernah dari posisi yang di-cache.
func CanAct(selected *zoneService.ZoneMembership) bool {
	return selected != nil && selected.IsInside
}

// LatestEvent membaca event terakhir milik user, nil kalau belum ada.
// Saat dipanggil dari alur clock, pakai tx yang sama dengan insert
// supaya urutan baca-tulis per user tetap serial.
func LatestEvent(tx *gorm.DB, userID uuid.UUID) (*eventModel.AttendanceEventModel, error) {
	var ev eventModel.AttendanceEventModel
	err := tx.
		Where("attendance_event_user_id = ?", userID).
		Order("attendance_event_created_at DESC").
		First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}
