package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateZoneRequest — zona baru oleh admin
type CreateZoneRequest struct {
	ZoneName         string   `json:"zone_name" validate:"required,min=3,max=100"`
	ZoneDescription  string   `json:"zone_description" validate:"omitempty,max=500"`
	ZoneLatitude     float64  `json:"zone_latitude" validate:"min=-90,max=90"`
	ZoneLongitude    float64  `json:"zone_longitude" validate:"min=-180,max=180"`
	ZoneRadiusMeters float64  `json:"zone_radius_meters" validate:"required,gt=0"`
	ZoneTags         []string `json:"zone_tags" validate:"omitempty,dive,min=1,max=50"`
	ZoneIsActive     *bool    `json:"zone_is_active,omitempty"`
}

func (r *CreateZoneRequest) Normalize() {
	r.ZoneName = strings.TrimSpace(r.ZoneName)
	r.ZoneDescription = strings.TrimSpace(r.ZoneDescription)
	tags := make([]string, 0, len(r.ZoneTags))
	for _, t := range r.ZoneTags {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			tags = append(tags, t)
		}
	}
	r.ZoneTags = tags
}

func (r *CreateZoneRequest) ToModel(ownerID uuid.UUID) *zoneModel.ZoneModel {
	m := &zoneModel.ZoneModel{
		ZoneName:         r.ZoneName,
		ZoneDescription:  r.ZoneDescription,
		ZoneLatitude:     r.ZoneLatitude,
		ZoneLongitude:    r.ZoneLongitude,
		ZoneRadiusMeters: r.ZoneRadiusMeters,
		ZoneOwnerUserID:  ownerID,
		ZoneTags:         pq.StringArray(r.ZoneTags),
		ZoneIsActive:     true,
	}
	if r.ZoneIsActive != nil {
		m.ZoneIsActive = *r.ZoneIsActive
	}
	return m
}

// UpdateZoneRequest — partial update (pointer = field dikirim)
type UpdateZoneRequest struct {
	ZoneName         *string   `json:"zone_name,omitempty" validate:"omitempty,min=3,max=100"`
	ZoneDescription  *string   `json:"zone_description,omitempty" validate:"omitempty,max=500"`
	ZoneLatitude     *float64  `json:"zone_latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	ZoneLongitude    *float64  `json:"zone_longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	ZoneRadiusMeters *float64  `json:"zone_radius_meters,omitempty" validate:"omitempty,gt=0"`
	ZoneTags         *[]string `json:"zone_tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	ZoneIsActive     *bool     `json:"zone_is_active,omitempty"`
}

func (r *UpdateZoneRequest) Normalize() {
	if r.ZoneName != nil {
		v := strings.TrimSpace(*r.ZoneName)
		r.ZoneName = &v
	}
	if r.ZoneDescription != nil {
		v := strings.TrimSpace(*r.ZoneDescription)
		r.ZoneDescription = &v
	}
	if r.ZoneTags != nil {
		tags := make([]string, 0, len(*r.ZoneTags))
		for _, t := range *r.ZoneTags {
			if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
				tags = append(tags, t)
			}
		}
		r.ZoneTags = &tags
	}
}

func (r *UpdateZoneRequest) ApplyToModel(m *zoneModel.ZoneModel) {
	if r.ZoneName != nil {
		m.ZoneName = *r.ZoneName
	}
	if r.ZoneDescription != nil {
		m.ZoneDescription = *r.ZoneDescription
	}
	if r.ZoneLatitude != nil {
		m.ZoneLatitude = *r.ZoneLatitude
	}
	if r.ZoneLongitude != nil {
		m.ZoneLongitude = *r.ZoneLongitude
	}
	if r.ZoneRadiusMeters != nil {
		m.ZoneRadiusMeters = *r.ZoneRadiusMeters
	}
	if r.ZoneTags != nil {
		m.ZoneTags = pq.StringArray(*r.ZoneTags)
	}
	if r.ZoneIsActive != nil {
		m.ZoneIsActive = *r.ZoneIsActive
	}
}

// ResolveRequest — koordinat segar dari perangkat
type ResolveRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// AddZoneMembersRequest — tautkan beberapa karyawan sekaligus
type AddZoneMembersRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1,dive,required"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type ZoneResponse struct {
	ZoneID           uuid.UUID `json:"zone_id"`
	ZoneName         string    `json:"zone_name"`
	ZoneDescription  string    `json:"zone_description,omitempty"`
	ZoneLatitude     float64   `json:"zone_latitude"`
	ZoneLongitude    float64   `json:"zone_longitude"`
	ZoneRadiusMeters float64   `json:"zone_radius_meters"`
	ZoneOwnerUserID  uuid.UUID `json:"zone_owner_user_id"`
	ZoneTags         []string  `json:"zone_tags,omitempty"`
	ZoneIsActive     bool      `json:"zone_is_active"`
	ZoneCreatedAt    time.Time `json:"zone_created_at"`
	ZoneUpdatedAt    time.Time `json:"zone_updated_at"`
}

func FromZoneModel(m *zoneModel.ZoneModel) *ZoneResponse {
	if m == nil {
		return nil
	}
	return &ZoneResponse{
		ZoneID:           m.ZoneID,
		ZoneName:         m.ZoneName,
		ZoneDescription:  m.ZoneDescription,
		ZoneLatitude:     m.ZoneLatitude,
		ZoneLongitude:    m.ZoneLongitude,
		ZoneRadiusMeters: m.ZoneRadiusMeters,
		ZoneOwnerUserID:  m.ZoneOwnerUserID,
		ZoneTags:         []string(m.ZoneTags),
		ZoneIsActive:     m.ZoneIsActive,
		ZoneCreatedAt:    m.ZoneCreatedAt,
		ZoneUpdatedAt:    m.ZoneUpdatedAt,
	}
}

func FromZoneModelList(list []zoneModel.ZoneModel) []ZoneResponse {
	out := make([]ZoneResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromZoneModel(&list[i]))
	}
	return out
}

// ZoneMembershipResponse — hasil ranking satu zona terhadap titik user
type ZoneMembershipResponse struct {
	Zone           ZoneResponse `json:"zone"`
	DistanceMeters float64      `json:"distance_meters"`
	IsInside       bool         `json:"is_inside"`
}
