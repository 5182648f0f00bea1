package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "absensiku_backend/internals/features/attendance/events/model"
	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
	authHelper "absensiku_backend/internals/features/users/auth/helper"
	authModel "absensiku_backend/internals/features/users/auth/model"
	authRepo "absensiku_backend/internals/features/users/auth/repository"
	"absensiku_backend/internals/features/users/user/dto"
	"absensiku_backend/internals/features/users/user/model"
	helper "absensiku_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

var userSortWhitelist = map[string]string{
	"user_name":  "user_name",
	"email":      "email",
	"created_at": "created_at",
}

// GET /api/a/users?q=&page=&per_page=&sort_by=&order=
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := uc.DB.Model(&model.UserModel{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + search + "%"
		q = q.Where("user_name ILIKE ? OR email ILIKE ? OR full_name ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Failed to count users:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	order, err := p.SafeOrderClause(userSortWhitelist, "created_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Kolom sort tidak dikenal")
	}

	var users []model.UserModel
	if err := q.
		Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&users).Error; err != nil {
		log.Println("[ERROR] Failed to fetch users:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	return helper.Success(c, "Daftar user", fiber.Map{
		"total":    total,
		"page":     p.Page,
		"per_page": p.PerPage,
		"users":    dto.FromModelList(users),
	})
}

// GET /api/a/users/search?q=namaOrEmail
func (uc *UserController) SearchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Query tidak boleh kosong")
	}

	like := "%" + query + "%"
	var users []model.UserModel
	if err := uc.DB.
		Where("user_name ILIKE ? OR email ILIKE ? OR full_name ILIKE ?", like, like, like).
		Limit(50).
		Find(&users).Error; err != nil {
		log.Println("[ERROR] SearchUsers gagal:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mencari pengguna")
	}

	return helper.Success(c, "Hasil pencarian user", fiber.Map{
		"total": len(users),
		"users": dto.FromModelList(users),
	})
}

// GET /api/a/users/:id
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	var user model.UserModel
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	return helper.Success(c, "Detail user", dto.FromModel(&user))
}

// POST /api/a/users — single atau multiple (JSON array)
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	v := validator.New()

	// coba parse sebagai array dulu
	var many []dto.CreateUserRequest
	if err := c.BodyParser(&many); err == nil && len(many) > 0 {
		rows := make([]model.UserModel, 0, len(many))
		for i := range many {
			many[i].Normalize()
			if err := v.Struct(many[i]); err != nil {
				return helper.ValidationError(c, err)
			}
			m := many[i].ToModel()
			hashed, err := authHelper.HashPassword(m.Password)
			if err != nil {
				return helper.Error(c, fiber.StatusInternalServerError, "Gagal memproses password")
			}
			m.Password = hashed
			rows = append(rows, *m)
		}

		if err := uc.DB.Create(&rows).Error; err != nil {
			log.Println("[ERROR] Failed to create multiple users:", err)
			if strings.Contains(err.Error(), "duplicate key") {
				return helper.Error(c, fiber.StatusConflict, "Username atau email sudah terdaftar")
			}
			return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat user")
		}

		log.Printf("[SUCCESS] Created %d users\n", len(rows))
		return helper.SuccessWithCode(c, fiber.StatusCreated, "User berhasil dibuat", dto.FromModelList(rows))
	}

	// kalau bukan array, parse single
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format input tidak valid")
	}
	req.Normalize()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	hashed, err := authHelper.HashPassword(m.Password)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}
	m.Password = hashed

	if err := uc.DB.Create(m).Error; err != nil {
		log.Println("[ERROR] Failed to create user:", err)
		if strings.Contains(err.Error(), "duplicate key") {
			return helper.Error(c, fiber.StatusConflict, "Username atau email sudah terdaftar")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat user")
	}

	log.Printf("[SUCCESS] Created user ID: %v\n", m.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "User berhasil dibuat", dto.FromModel(m))
}

// PUT /api/a/users/:id — partial update oleh admin
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	var user model.UserModel
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()

	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// password di-hash sebelum masuk model
	passwordChanged := false
	if req.Password != nil {
		hashed, err := authHelper.HashPassword(*req.Password)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Gagal memproses password")
		}
		req.Password = &hashed
		passwordChanged = true
	}

	req.ApplyToModel(&user)

	if err := uc.DB.Save(&user).Error; err != nil {
		log.Println("[ERROR] Failed to update user:", err)
		if strings.Contains(err.Error(), "duplicate key") {
			return helper.Error(c, fiber.StatusConflict, "Username atau email sudah terdaftar")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperbarui user")
	}

	// password diganti admin → semua sesi refresh lama hangus
	if passwordChanged {
		if err := authRepo.RevokeAllRefreshTokensForUser(uc.DB, userID); err != nil {
			log.Println("[WARN] Gagal mencabut refresh token:", err)
		}
	}

	log.Printf("[SUCCESS] Updated user ID: %v\n", user.ID)
	return helper.Success(c, "User berhasil diperbarui", dto.FromModel(&user))
}

// DELETE /api/a/users/:id
// Penghapusan user menarik seluruh jejaknya dalam SATU transaksi:
// event absen terhapus permanen, keanggotaan zona dan refresh token
// dibersihkan, zona milik user di-soft-delete, terakhir user-nya
// di-soft-delete. Event user lain yang menunjuk zona tersebut akan
// jatuh ke bucket "Unknown Location" di laporan.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	// admin tidak boleh menghapus dirinya sendiri
	if actorID, err := helper.GetUserIDFromToken(c); err == nil && actorID == userID {
		return helper.Error(c, fiber.StatusBadRequest, "Tidak bisa menghapus akun sendiri")
	}

	var user model.UserModel
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membaca user")
	}

	// ========== TX ==========
	tx := uc.DB.WithContext(c.Context()).Begin()
	if tx.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memulai transaksi")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// 1) Event absen: hard delete (model tanpa deleted_at)
	events := tx.Where("attendance_event_user_id = ?", userID).
		Delete(&eventModel.AttendanceEventModel{})
	if events.Error != nil {
		tx.Rollback()
		log.Println("[ERROR] Gagal menghapus event absen:", events.Error)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}

	// 2) Keanggotaan zona
	if err := tx.Where("zone_member_user_id = ?", userID).
		Delete(&zoneModel.ZoneMemberModel{}).Error; err != nil {
		tx.Rollback()
		log.Println("[ERROR] Gagal menghapus keanggotaan zona:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}

	// 3) Refresh token (hard delete, sesi langsung mati)
	if err := tx.Where("user_id = ?", userID).
		Delete(&authModel.RefreshToken{}).Error; err != nil {
		tx.Rollback()
		log.Println("[ERROR] Gagal menghapus refresh token:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}

	// 4) Zona milik user: soft delete
	if err := tx.Where("zone_owner_user_id = ?", userID).
		Delete(&zoneModel.ZoneModel{}).Error; err != nil {
		tx.Rollback()
		log.Println("[ERROR] Gagal menghapus zona milik user:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}

	// 5) User: soft delete
	res := tx.Delete(&model.UserModel{}, "id = ?", userID)
	if res.Error != nil {
		tx.Rollback()
		log.Println("[ERROR] Gagal menghapus user:", res.Error)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}

	if err := tx.Commit().Error; err != nil {
		log.Println("[ERROR] Commit hapus user gagal:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}

	log.Printf("[SUCCESS] Deleted user %s beserta %d event absen\n", userID, events.RowsAffected)
	return helper.Success(c, "User berhasil dihapus", fiber.Map{
		"id":             userID,
		"deleted_events": events.RowsAffected,
	})
}

/* ==========================
   DEVICE RESET (ADMIN)
========================== */

// GET /api/a/users/device-resets — user yang sedang minta reset perangkat
func (uc *UserController) ListDeviceResets(c *fiber.Ctx) error {
	var users []model.UserModel
	if err := uc.DB.
		Where("device_reset_requested = ?", true).
		Order("updated_at ASC").
		Find(&users).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil permintaan reset:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil permintaan reset")
	}

	return helper.Success(c, "Permintaan reset perangkat", fiber.Map{
		"total": len(users),
		"users": dto.FromModelList(users),
	})
}

// POST /api/a/users/:id/device-reset
// Idempotent: binding + flag dibersihkan sekaligus; login berikutnya
// mengikat perangkat yang dipakai saat itu.
func (uc *UserController) GrantDeviceReset(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format UUID tidak valid")
	}

	var user model.UserModel
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	if err := authRepo.ClearDeviceBinding(uc.DB, userID); err != nil {
		log.Println("[ERROR] Gagal reset device binding:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal reset perangkat")
	}

	log.Printf("[SUCCESS] Device binding user %s di-reset admin\n", userID)
	return helper.Success(c, "Perangkat di-reset, login berikutnya akan mengikat perangkat baru", fiber.Map{
		"id": userID,
	})
}
