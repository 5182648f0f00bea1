package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ZoneModel struct {
	ZoneID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"zone_id"`
	ZoneName         string         `gorm:"type:varchar(100);not null" json:"zone_name"`
	ZoneDescription  string         `gorm:"type:text" json:"zone_description"`
	ZoneLatitude     float64        `gorm:"type:decimal(9,6);not null" json:"zone_latitude"`
	ZoneLongitude    float64        `gorm:"type:decimal(9,6);not null" json:"zone_longitude"`
	ZoneRadiusMeters float64        `gorm:"type:decimal(8,2);not null" json:"zone_radius_meters"`
	ZoneOwnerUserID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"zone_owner_user_id"`
	ZoneTags         pq.StringArray `gorm:"type:text[]" json:"zone_tags"`
	ZoneIsActive     bool           `gorm:"default:true" json:"zone_is_active"`
	ZoneCreatedAt    time.Time      `gorm:"autoCreateTime" json:"zone_created_at"`
	ZoneUpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"zone_updated_at"`
	ZoneDeletedAt    gorm.DeletedAt `gorm:"column:zone_deleted_at" json:"zone_deleted_at,omitempty"`
}

func (ZoneModel) TableName() string {
	return "zones"
}
