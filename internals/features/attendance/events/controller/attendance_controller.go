package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"absensiku_backend/internals/features/attendance/events/dto"
	eventModel "absensiku_backend/internals/features/attendance/events/model"
	eventService "absensiku_backend/internals/features/attendance/events/service"
	zoneService "absensiku_backend/internals/features/attendance/zones/service"
	userModel "absensiku_backend/internals/features/users/user/model"
	helper "absensiku_backend/internals/helpers"
	"absensiku_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	DB *gorm.DB
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{DB: db}
}

var attendanceSortWhitelist = map[string]string{
	"time":   "attendance_event_created_at",
	"status": "attendance_event_status",
}

/* ===================== USER ===================== */

// POST /api/u/attendance/clock
// Satu tombol untuk check-in dan check-out: status ditentukan dari event
// terakhir, bukan dari pilihan client.
func (ac *AttendanceController) Clock(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ClockRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	point := zoneService.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	ranked, selected, err := zoneService.ResolveForUser(ac.DB, userID, helper.IsAdminFromToken(c), point)
	if err != nil {
		log.Println("[ERROR] Gagal resolve zona:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengevaluasi zona")
	}

	// Guard lokasi: di luar semua zona → tolak tanpa menyentuh log.
	// Kirim zona terdekat biar client bisa kasih petunjuk arah.
	if !eventService.CanAct(selected) {
		data := fiber.Map{"inside": false}
		if len(ranked) > 0 {
			data["nearest_zone"] = fiber.Map{
				"zone_id":         ranked[0].Zone.ZoneID,
				"zone_name":       ranked[0].Zone.ZoneName,
				"distance_meters": ranked[0].DistanceMeters,
				"radius_meters":   ranked[0].Zone.ZoneRadiusMeters,
			}
		}
		return helper.JsonErrorCode(c, fiber.StatusUnprocessableEntity, helper.ErrCodeOutOfZone,
			"Kamu berada di luar semua zona absen", data)
	}

	// ========== TX ==========
	tx := ac.DB.WithContext(c.Context()).Begin()
	if tx.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memulai transaksi")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// 1) Kunci baris user (FOR UPDATE) — dua clock paralel dari user yang
	//    sama jadi serial, status ganda tidak mungkin tertulis
	var u userModel.UserModel
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&u, "id = ?", userID).Error; err != nil {

		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		log.Println("[ERROR] Gagal mengunci baris user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses absen")
	}

	// 2) Status berikutnya dari event terakhir, dibaca dalam tx yang sama
	last, err := eventService.LatestEvent(tx, userID)
	if err != nil {
		tx.Rollback()
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membaca riwayat absen")
	}
	var lastStatus *string
	if last != nil {
		lastStatus = &last.AttendanceEventStatus
	}
	status := eventService.NextStatus(lastStatus)

	// 3) Append event + snapshot zona (nama & jarak saat itu) di meta
	zoneID := selected.Zone.ZoneID
	meta := datatypes.JSONMap{
		"zone_name":  selected.Zone.ZoneName,
		"distance_m": selected.DistanceMeters,
	}
	if req.Accuracy != nil {
		meta["accuracy"] = *req.Accuracy
	}
	if p := strings.TrimSpace(req.Platform); p != "" {
		meta["platform"] = p
	}

	ev := eventModel.AttendanceEventModel{
		AttendanceEventUserID:    userID,
		AttendanceEventStatus:    status,
		AttendanceEventLatitude:  req.Latitude,
		AttendanceEventLongitude: req.Longitude,
		AttendanceEventZoneID:    &zoneID,
		AttendanceEventMeta:      meta,
	}
	if err := tx.Create(&ev).Error; err != nil {
		tx.Rollback()
		log.Println("[ERROR] Gagal menyimpan event absen:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan absen")
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("[ERROR] Commit absen gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan absen")
	}

	msg := "Check-in berhasil"
	if status == eventModel.AttendanceStatusCheckOut {
		msg = "Check-out berhasil"
	}
	return helper.JsonCreated(c, msg, dto.FromEventModel(&ev))
}

// GET /api/u/attendance/status
func (ac *AttendanceController) Status(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	last, err := eventService.LatestEvent(ac.DB, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membaca status absen")
	}

	var lastStatus *string
	if last != nil {
		lastStatus = &last.AttendanceEventStatus
	}

	resp := dto.AttendanceStatusResponse{
		LastEvent:  dto.FromEventModel(last),
		LastStatus: lastStatus,
		NextAction: eventService.NextStatus(lastStatus),
	}
	return helper.JsonOK(c, "Status absen", resp)
}

// GET /api/u/attendance/history?from=&to=&page=&per_page=
func (ac *AttendanceController) History(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	p := helper.ParseFiber(c, "time", "desc", helper.DefaultOpts)

	from, to, err := dbtime.ParseDateRangeQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := ac.DB.Model(&eventModel.AttendanceEventModel{}).
		Where("attendance_event_user_id = ?", userID)
	if from != nil {
		q = q.Where("attendance_event_created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("attendance_event_created_at < ?", *to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung riwayat")
	}

	order, err := p.SafeOrderClause(attendanceSortWhitelist, "time")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kolom sort tidak dikenal")
	}

	var events []eventModel.AttendanceEventModel
	if err := q.
		Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat")
	}

	pagination := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "Riwayat absen", dto.FromEventModelList(events), &pagination)
}

/* ===================== ADMIN ===================== */

// GET /api/a/attendance?user_id=&zone_ids=&status=&from=&to=
// zone_ids dipisah koma, difilter pakai = ANY(uuid[]).
// per_page=all diizinkan (hard cap ExportOpts) untuk kebutuhan dump.
func (ac *AttendanceController) AdminList(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "time", "desc", helper.ExportOpts)

	from, to, err := dbtime.ParseDateRangeQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := ac.DB.Model(&eventModel.AttendanceEventModel{})

	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		uid, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
		}
		q = q.Where("attendance_event_user_id = ?", uid)
	}

	if raw := strings.TrimSpace(c.Query("zone_ids")); raw != "" {
		ids := make([]uuid.UUID, 0)
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "zone_ids tidak valid")
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			q = q.Where("attendance_event_zone_id = ANY(?)", pq.Array(ids))
		}
	}

	if st := strings.TrimSpace(c.Query("status")); st != "" {
		if st != eventModel.AttendanceStatusCheckIn && st != eventModel.AttendanceStatusCheckOut {
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak dikenal")
		}
		q = q.Where("attendance_event_status = ?", st)
	}

	if from != nil {
		q = q.Where("attendance_event_created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("attendance_event_created_at < ?", *to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung event")
	}

	order, err := p.SafeOrderClause(attendanceSortWhitelist, "time")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kolom sort tidak dikenal")
	}

	var events []eventModel.AttendanceEventModel
	if err := q.
		Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}

	pagination := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "Daftar event absen", dto.FromEventModelList(events), &pagination)
}
