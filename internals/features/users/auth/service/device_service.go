package service

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensiku_backend/internals/constants"
	authHelper "absensiku_backend/internals/features/users/auth/helper"
	authRepo "absensiku_backend/internals/features/users/auth/repository"
	userModel "absensiku_backend/internals/features/users/user/model"
	helpers "absensiku_backend/internals/helpers"
)

/* ==========================
   DEVICE BINDING
========================== */

// DeviceDecision adalah hasil evaluasi perangkat saat membuka sesi.
type DeviceDecision string

const (
	// DeviceAllowBind: user belum punya perangkat terdaftar, perangkat ini
	// akan diikat sebagai perangkat pertama.
	DeviceAllowBind DeviceDecision = "allow_bind"
	// DeviceAllowMatch: perangkat cocok dengan yang terdaftar (atau bypass).
	DeviceAllowMatch DeviceDecision = "allow_match"
	// DeviceBlock: perangkat berbeda dari yang terdaftar, sesi ditolak.
	DeviceBlock DeviceDecision = "block"
)

const headerDeviceID = "X-Device-ID"

// DeviceIDFromRequest membaca identitas perangkat dari header.
// String kosong berarti klien gagal menurunkan identitas perangkatnya.
func DeviceIDFromRequest(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get(headerDeviceID))
}

// DecideDevice menentukan nasib sesi berdasarkan perangkat, tanpa side effect.
// Urutan evaluasi:
//  1. Admin tidak pernah terikat perangkat.
//  2. Identitas perangkat kosong = derivasi gagal di sisi klien.
//     Kebijakan terdokumentasi: fail-open, supaya error platform yang
//     sifatnya sementara tidak mengunci user.
//  3. Belum ada ikatan: perangkat ini jadi perangkat pertama.
//  4. Cocok persis: lolos. Selain itu: blokir.
func DecideDevice(user *userModel.UserModel, currentDeviceID string) DeviceDecision {
	if user.Role == constants.RoleAdmin {
		return DeviceAllowMatch
	}
	if currentDeviceID == "" {
		return DeviceAllowMatch
	}
	if user.DeviceID == nil || *user.DeviceID == "" {
		return DeviceAllowBind
	}
	if *user.DeviceID == currentDeviceID {
		return DeviceAllowMatch
	}
	return DeviceBlock
}

// EnforceDeviceBinding menjalankan keputusan beserta side effect-nya.
// Untuk allow_bind, bind dilakukan lewat UPDATE kondisional; kalau kalah
// balapan dengan login paralel, user dibaca ulang dan keputusan diulang
// terhadap ikatan yang menang.
func EnforceDeviceBinding(db *gorm.DB, user *userModel.UserModel, currentDeviceID string) (DeviceDecision, error) {
	decision := DecideDevice(user, currentDeviceID)
	if decision != DeviceAllowBind {
		return decision, nil
	}

	bound, err := authRepo.TryBindDevice(db, user.ID, currentDeviceID)
	if err != nil {
		return DeviceBlock, err
	}
	if bound {
		user.DeviceID = &currentDeviceID
		return DeviceAllowBind, nil
	}

	// Ada ikatan lain yang menang duluan.
	fresh, err := authRepo.FindUserByID(db, user.ID)
	if err != nil {
		return DeviceBlock, err
	}
	user.DeviceID = fresh.DeviceID
	user.DeviceResetRequested = fresh.DeviceResetRequested
	return DecideDevice(fresh, currentDeviceID), nil
}

// respondDeviceBlocked membentuk respons 403 standar untuk sesi terblokir.
// data.device_reset_requested memberi tahu klien apakah permintaan reset
// sudah pernah dikirim, supaya tombolnya bisa disable.
func respondDeviceBlocked(c *fiber.Ctx, resetRequested bool) error {
	return helpers.JsonErrorCode(c, fiber.StatusForbidden, helpers.ErrCodeDeviceBlocked,
		"Perangkat ini tidak dikenali. Ajukan reset perangkat ke admin.",
		fiber.Map{"device_reset_requested": resetRequested})
}

/* ==========================
   RESET REQUEST (user terblokir)
========================== */

// DeviceResetRequest dipakai user yang sesinya terblokir. Karena user
// terblokir tidak memegang token, identitas dibuktikan ulang lewat
// kredensial. Idempotent: permintaan ulang tetap 200.
func DeviceResetRequest(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)

	if err := authHelper.ValidateLoginInput(input.Identifier, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	userLight, err := authRepo.FindUserByEmailOrUsernameLight(db, input.Identifier)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}
	if !userLight.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}
	if err := authHelper.CheckPasswordHash(userLight.Password, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}

	// Reset hanya relevan untuk sesi yang memang terblokir.
	deviceID := DeviceIDFromRequest(c)
	if DecideDevice(userLight, deviceID) != DeviceBlock {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Akun ini tidak dalam status terblokir")
	}

	if err := authRepo.MarkDeviceResetRequested(db, userLight.ID); err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan permintaan reset")
	}

	return helpers.JsonOK(c, "Permintaan reset perangkat terkirim. Tunggu persetujuan admin.",
		fiber.Map{"device_reset_requested": true})
}
