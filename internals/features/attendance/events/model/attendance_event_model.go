package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status event absensi. Log event adalah satu-satunya sumber status;
// tidak ada kolom status terpisah di tabel users.
const (
	AttendanceStatusCheckIn  = "check_in"
	AttendanceStatusCheckOut = "check_out"
)

// AttendanceEventModel append-only: tidak pernah di-update atau di-soft-delete.
// Koordinat mentah disimpan supaya laporan bisa resolve ulang zonanya.
type AttendanceEventModel struct {
	AttendanceEventID        uuid.UUID         `gorm:"column:attendance_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"attendance_event_id"`
	AttendanceEventUserID    uuid.UUID         `gorm:"column:attendance_event_user_id;type:uuid;not null;index:idx_attendance_events_user_time,priority:1" json:"attendance_event_user_id"`
	AttendanceEventStatus    string            `gorm:"column:attendance_event_status;type:varchar(20);not null" json:"attendance_event_status"`
	AttendanceEventLatitude  float64           `gorm:"column:attendance_event_latitude;type:decimal(9,6);not null" json:"attendance_event_latitude"`
	AttendanceEventLongitude float64           `gorm:"column:attendance_event_longitude;type:decimal(9,6);not null" json:"attendance_event_longitude"`
	AttendanceEventZoneID    *uuid.UUID        `gorm:"column:attendance_event_zone_id;type:uuid;index" json:"attendance_event_zone_id,omitempty"`
	AttendanceEventMeta      datatypes.JSONMap `gorm:"column:attendance_event_meta;type:jsonb" json:"attendance_event_meta,omitempty"`
	AttendanceEventCreatedAt time.Time         `gorm:"column:attendance_event_created_at;type:timestamptz;autoCreateTime;index:idx_attendance_events_user_time,priority:2" json:"attendance_event_created_at"`
}

func (AttendanceEventModel) TableName() string {
	return "attendance_events"
}
