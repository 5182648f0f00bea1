package controller

import (
	"bytes"
	"encoding/csv"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	reportService "absensiku_backend/internals/features/attendance/reports/service"
	helper "absensiku_backend/internals/helpers"
	"absensiku_backend/internals/helpers/dbtime"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

/* ===================== USER ===================== */

// GET /api/u/reports/summary?from=&to=
func (rc *ReportController) MySummary(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return rc.respondSummary(c, &userID)
}

// GET /api/u/reports/export?from=&to=&type=details|summary
func (rc *ReportController) MyExport(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return rc.exportCSV(c, &userID)
}

/* ===================== ADMIN ===================== */

// GET /api/a/reports/summary?user_id=&from=&to=
// Tanpa user_id: laporan lintas semua user.
func (rc *ReportController) AdminSummary(c *fiber.Ctx) error {
	userID, err := optionalUserIDQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
	}
	return rc.respondSummary(c, userID)
}

// GET /api/a/reports/export?user_id=&from=&to=&type=details|summary
func (rc *ReportController) AdminExport(c *fiber.Ctx) error {
	userID, err := optionalUserIDQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
	}
	return rc.exportCSV(c, userID)
}

/* ===================== INTERNAL ===================== */

func optionalUserIDQuery(c *fiber.Ctx) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query("user_id"))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (rc *ReportController) loadResult(c *fiber.Ctx, userID *uuid.UUID) (*reportService.ReportResult, error) {
	from, to, err := dbtime.ParseDateRangeQuery(c)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	events, err := reportService.LoadEvents(rc.DB, userID, from, to)
	if err != nil {
		log.Println("[ERROR] Gagal memuat event laporan:", err)
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat laporan")
	}

	zones, err := reportService.LoadZonesForReport(rc.DB)
	if err != nil {
		log.Println("[ERROR] Gagal memuat zona laporan:", err)
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat laporan")
	}

	result := reportService.Summarize(events, zones)
	return &result, nil
}

func (rc *ReportController) respondSummary(c *fiber.Ctx, userID *uuid.UUID) error {
	result, err := rc.loadResult(c, userID)
	if err != nil {
		return err // response sudah ditulis loadResult
	}
	return helper.JsonOK(c, "Laporan absen", result)
}

func (rc *ReportController) exportCSV(c *fiber.Ctx, userID *uuid.UUID) error {
	exportType := strings.ToLower(strings.TrimSpace(c.Query("type", "details")))
	if exportType != "details" && exportType != "summary" {
		return helper.JsonError(c, fiber.StatusBadRequest, "type harus details atau summary")
	}

	result, err := rc.loadResult(c, userID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Error csv.Writer sticky, cukup dicek sekali setelah Flush
	if exportType == "summary" {
		_ = w.Write([]string{"zone_id", "zone_name", "total_minutes", "session_count"})
		for _, s := range result.Summaries {
			_ = w.Write([]string{
				s.ZoneID,
				s.ZoneName,
				strconv.FormatFloat(s.TotalMinutes, 'f', 2, 64),
				strconv.Itoa(s.SessionCount),
			})
		}
	} else {
		_ = w.Write([]string{"event_id", "user_id", "status", "timestamp", "latitude", "longitude", "zone_id", "zone_name", "duration_minutes"})
		for _, d := range result.Details {
			dur := ""
			if d.DurationMinutes != nil {
				dur = strconv.FormatFloat(*d.DurationMinutes, 'f', 2, 64)
			}
			_ = w.Write([]string{
				d.EventID.String(),
				d.UserID.String(),
				d.Status,
				dbtime.ToLocalTime(c, d.Timestamp).Format(time.RFC3339),
				strconv.FormatFloat(d.Latitude, 'f', 6, 64),
				strconv.FormatFloat(d.Longitude, 'f', 6, 64),
				d.ZoneID,
				d.ZoneName,
				dur,
			})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Println("[ERROR] Gagal menulis CSV:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat file export")
	}

	filename := exportFilename(exportType, c.Query("from"), c.Query("to"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func exportFilename(exportType, from, to string) string {
	parts := []string{"absensi", exportType}
	if s := strings.TrimSpace(from); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(to); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "_") + ".csv"
}
