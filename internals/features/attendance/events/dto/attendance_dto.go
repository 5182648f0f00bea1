package dto

import (
	"time"

	"github.com/google/uuid"

	eventModel "absensiku_backend/internals/features/attendance/events/model"
)

/* ==========================
   REQUEST
========================== */

// ClockRequest: koordinat segar dari perangkat saat tombol absen ditekan.
// Accuracy dan platform opsional, ikut disimpan sebagai meta.
type ClockRequest struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	Platform  string   `json:"platform,omitempty" validate:"omitempty,max=50"`
}

/* ==========================
   RESPONSE
========================== */

type AttendanceEventResponse struct {
	EventID   uuid.UUID      `json:"event_id"`
	UserID    uuid.UUID      `json:"user_id"`
	Status    string         `json:"status"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	ZoneID    *uuid.UUID     `json:"zone_id,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func FromEventModel(m *eventModel.AttendanceEventModel) *AttendanceEventResponse {
	if m == nil {
		return nil
	}
	return &AttendanceEventResponse{
		EventID:   m.AttendanceEventID,
		UserID:    m.AttendanceEventUserID,
		Status:    m.AttendanceEventStatus,
		Latitude:  m.AttendanceEventLatitude,
		Longitude: m.AttendanceEventLongitude,
		ZoneID:    m.AttendanceEventZoneID,
		Meta:      m.AttendanceEventMeta,
		Timestamp: m.AttendanceEventCreatedAt,
	}
}

func FromEventModelList(models []eventModel.AttendanceEventModel) []AttendanceEventResponse {
	out := make([]AttendanceEventResponse, 0, len(models))
	for i := range models {
		out = append(out, *FromEventModel(&models[i]))
	}
	return out
}

// AttendanceStatusResponse untuk GET /attendance/status: event terakhir
// plus aksi berikutnya yang akan terjadi kalau user menekan tombol absen.
type AttendanceStatusResponse struct {
	LastEvent  *AttendanceEventResponse `json:"last_event"`
	LastStatus *string                  `json:"last_status"`
	NextAction string                   `json:"next_action"`
}
