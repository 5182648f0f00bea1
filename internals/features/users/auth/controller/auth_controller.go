package controller

import (
	"absensiku_backend/internals/configs"
	"absensiku_backend/internals/features/users/auth/service"
	models "absensiku_backend/internals/features/users/user/model"
	helper "absensiku_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// GET /api/u/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}

	var user models.UserModel
	if err := ac.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":                     user.ID,
			"user_name":              user.UserName,
			"full_name":              user.FullName,
			"email":                  user.Email,
			"role":                   user.Role,
			"avatar_url":             user.AvatarURL,
			"device_bound":           user.DeviceID != nil && *user.DeviceID != "",
			"device_reset_requested": user.DeviceResetRequested,
		},
	})
}

// PUT /api/u/me/name
func (ac *AuthController) UpdateUserName(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}

	var req struct {
		UserName string `json:"user_name" validate:"required,min=3,max=50"`
	}

	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := ac.DB.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("user_name", req.UserName).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal update user name")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Username berhasil diperbarui",
	})
}

// PUT /api/u/me/avatar — multipart field "avatar"
func (ac *AuthController) UpdateAvatar(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File avatar wajib diunggah")
	}

	var user models.UserModel
	if err := ac.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	newPath, err := helper.SaveAvatarWebP(fileHeader, configs.AvatarDir, configs.AvatarPublicPath)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	old := user.AvatarURL
	if err := ac.DB.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("avatar_url", newPath).Error; err != nil {
		helper.RemoveAvatarFile(configs.AvatarDir, configs.AvatarPublicPath, newPath)
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan avatar")
	}

	// file lama dibersihkan setelah DB sukses
	if old != nil {
		helper.RemoveAvatarFile(configs.AvatarDir, configs.AvatarPublicPath, *old)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Avatar berhasil diperbarui",
		"avatar_url": newPath,
	})
}

// DELETE /api/u/me/avatar
func (ac *AuthController) DeleteAvatar(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}

	var user models.UserModel
	if err := ac.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	if err := ac.DB.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("avatar_url", nil).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus avatar")
	}

	if user.AvatarURL != nil {
		helper.RemoveAvatarFile(configs.AvatarDir, configs.AvatarPublicPath, *user.AvatarURL)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Avatar berhasil dihapus",
	})
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.DB, c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	return service.LoginGoogle(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, c)
}

func (pc *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(pc.DB, c)
}

func (rc *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(rc.DB, c)
}

func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	return service.ResetPassword(ac.DB, c)
}

func (ac *AuthController) CheckSecurityAnswer(c *fiber.Ctx) error {
	return service.CheckSecurityAnswer(ac.DB, c)
}

func (ac *AuthController) DeviceResetRequest(c *fiber.Ctx) error {
	return service.DeviceResetRequest(ac.DB, c)
}

func (ac *AuthController) CSRF(c *fiber.Ctx) error {
	return service.CSRF(ac.DB, c)
}
