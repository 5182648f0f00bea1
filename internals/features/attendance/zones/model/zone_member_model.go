package model

import (
	"time"

	"github.com/google/uuid"
)

// ZoneMemberModel menautkan karyawan ke zona tempat dia boleh absen.
// User tanpa baris di sini dianggap boleh absen di semua zona aktif.
type ZoneMemberModel struct {
	ZoneMemberID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"zone_member_id"`
	ZoneMemberZoneID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_zone_member_pair,priority:1" json:"zone_member_zone_id"`
	ZoneMemberUserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_zone_member_pair,priority:2;index" json:"zone_member_user_id"`
	ZoneMemberCreatedAt time.Time `gorm:"autoCreateTime" json:"zone_member_created_at"`
}

func (ZoneMemberModel) TableName() string {
	return "zone_members"
}
