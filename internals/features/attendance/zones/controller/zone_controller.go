package controller

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"absensiku_backend/internals/features/attendance/zones/dto"
	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
	zoneService "absensiku_backend/internals/features/attendance/zones/service"
	helper "absensiku_backend/internals/helpers"
)

type ZoneController struct {
	DB *gorm.DB
}

func NewZoneController(db *gorm.DB) *ZoneController {
	return &ZoneController{DB: db}
}

// kolom yang boleh dipakai sorting dari query string
var zoneSortWhitelist = map[string]string{
	"name":       "zone_name",
	"radius":     "zone_radius_meters",
	"created_at": "zone_created_at",
}

/* ===================== ADMIN ===================== */

// POST /api/a/zones
func (zc *ZoneController) CreateZone(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel(adminID)
	if err := zc.DB.Create(m).Error; err != nil {
		log.Println("[ERROR] Gagal membuat zona:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat zona")
	}

	return helper.JsonCreated(c, "Zona berhasil dibuat", dto.FromZoneModel(m))
}

// GET /api/a/zones?page=&per_page=&sort_by=&order=&tag=&include_inactive=
func (zc *ZoneController) ListZones(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "asc", helper.AdminOpts)

	q := zc.DB.Model(&zoneModel.ZoneModel{})
	if !c.QueryBool("include_inactive") {
		q = q.Where("zone_is_active = ?", true)
	}
	if tag := strings.TrimSpace(strings.ToLower(c.Query("tag"))); tag != "" {
		q = q.Where("? = ANY(zone_tags)", tag)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung zona")
	}

	order, err := p.SafeOrderClause(zoneSortWhitelist, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kolom sort tidak dikenal")
	}

	var zones []zoneModel.ZoneModel
	if err := q.
		Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&zones).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil zona")
	}

	pagination := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "Daftar zona", dto.FromZoneModelList(zones), &pagination)
}

// GET /api/a/zones/:id
func (zc *ZoneController) GetZone(c *fiber.Ctx) error {
	zoneID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	var zone zoneModel.ZoneModel
	if err := zc.DB.First(&zone, "zone_id = ?", zoneID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Zona tidak ditemukan")
	}

	var members []zoneModel.ZoneMemberModel
	if err := zc.DB.
		Where("zone_member_zone_id = ?", zoneID).
		Order("zone_member_created_at ASC").
		Find(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil anggota zona")
	}

	memberIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ZoneMemberUserID)
	}

	return helper.JsonOK(c, "Detail zona", fiber.Map{
		"zone":            dto.FromZoneModel(&zone),
		"member_user_ids": memberIDs,
	})
}

// PUT /api/a/zones/:id
func (zc *ZoneController) UpdateZone(c *fiber.Ctx) error {
	zoneID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	var zone zoneModel.ZoneModel
	if err := zc.DB.First(&zone, "zone_id = ?", zoneID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Zona tidak ditemukan")
	}

	var req dto.UpdateZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.ApplyToModel(&zone)
	if err := zc.DB.Save(&zone).Error; err != nil {
		log.Println("[ERROR] Gagal update zona:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui zona")
	}

	return helper.JsonUpdated(c, "Zona berhasil diperbarui", dto.FromZoneModel(&zone))
}

// DELETE /api/a/zones/:id — soft delete; event lama tetap menunjuk zona ini
func (zc *ZoneController) DeleteZone(c *fiber.Ctx) error {
	zoneID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	res := zc.DB.Delete(&zoneModel.ZoneModel{}, "zone_id = ?", zoneID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus zona")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Zona tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Zona berhasil dihapus", fiber.Map{"zone_id": zoneID})
}

/* ===================== MEMBERS ===================== */

// POST /api/a/zones/:id/members
func (zc *ZoneController) AddZoneMembers(c *fiber.Ctx) error {
	zoneID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	var zone zoneModel.ZoneModel
	if err := zc.DB.First(&zone, "zone_id = ?", zoneID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Zona tidak ditemukan")
	}

	var req dto.AddZoneMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	rows := make([]zoneModel.ZoneMemberModel, 0, len(req.UserIDs))
	for _, uid := range req.UserIDs {
		rows = append(rows, zoneModel.ZoneMemberModel{
			ZoneMemberZoneID: zoneID,
			ZoneMemberUserID: uid,
		})
	}

	// Duplikat pasangan (zone,user) diabaikan lewat unique index
	if err := zc.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		log.Println("[ERROR] Gagal menambah anggota zona:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menambah anggota zona")
	}

	return helper.JsonCreated(c, "Anggota zona ditambahkan", fiber.Map{
		"zone_id":  zoneID,
		"user_ids": req.UserIDs,
	})
}

// DELETE /api/a/zones/:id/members/:user_id
func (zc *ZoneController) RemoveZoneMember(c *fiber.Ctx) error {
	zoneID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	res := zc.DB.
		Where("zone_member_zone_id = ? AND zone_member_user_id = ?", zoneID, userID).
		Delete(&zoneModel.ZoneMemberModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus anggota zona")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Anggota zona tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Anggota zona dihapus", fiber.Map{
		"zone_id": zoneID,
		"user_id": userID,
	})
}

/* ===================== USER ===================== */

// GET /api/u/zones — zona yang terlihat oleh user ini
func (zc *ZoneController) ListVisibleZones(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	zones, err := zoneService.VisibleZones(zc.DB, userID, helper.IsAdminFromToken(c))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil zona")
	}

	return helper.JsonOK(c, "Zona tersedia", dto.FromZoneModelList(zones))
}

// POST /api/u/zones/resolve — ranking semua zona terhadap koordinat segar
func (zc *ZoneController) ResolveZones(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	point := zoneService.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	ranked, selected, err := zoneService.ResolveForUser(zc.DB, userID, helper.IsAdminFromToken(c), point)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengevaluasi zona")
	}

	out := make([]dto.ZoneMembershipResponse, 0, len(ranked))
	for i := range ranked {
		out = append(out, dto.ZoneMembershipResponse{
			Zone:           *dto.FromZoneModel(&ranked[i].Zone),
			DistanceMeters: ranked[i].DistanceMeters,
			IsInside:       ranked[i].IsInside,
		})
	}

	var auto *dto.ZoneMembershipResponse
	if selected != nil {
		auto = &dto.ZoneMembershipResponse{
			Zone:           *dto.FromZoneModel(&selected.Zone),
			DistanceMeters: selected.DistanceMeters,
			IsInside:       selected.IsInside,
		}
	}

	return helper.JsonOK(c, "Hasil evaluasi zona", fiber.Map{
		"ranked":        out,
		"auto_selected": auto,
	})
}
