package dto

import (
	"strings"
	"time"

	uModel "absensiku_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest — untuk create by admin
type CreateUserRequest struct {
	UserName         string  `json:"user_name" validate:"required,min=3,max=50"`
	FullName         string  `json:"full_name" validate:"required,min=3,max=100"`
	Email            string  `json:"email" validate:"required,email,max=255"`
	Password         string  `json:"password" validate:"required,min=8"`
	Role             string  `json:"role" validate:"omitempty,oneof=employee admin"`
	SecurityQuestion string  `json:"security_question" validate:"required"`
	SecurityAnswer   string  `json:"security_answer" validate:"required,min=3,max=255"`
	IsActive         *bool   `json:"is_active,omitempty"`
	GoogleID         *string `json:"google_id,omitempty"`
}

// Normalize — trim & normalisasi dasar
func (r *CreateUserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
	r.SecurityQuestion = strings.TrimSpace(r.SecurityQuestion)
	r.SecurityAnswer = strings.TrimSpace(r.SecurityAnswer)
}

// ToModel — konversi ke model (ingat: hash password di controller!)
func (r *CreateUserRequest) ToModel() *uModel.UserModel {
	m := &uModel.UserModel{
		UserName:         r.UserName,
		FullName:         r.FullName,
		Email:            r.Email,
		Password:         r.Password, // hash di controller
		GoogleID:         r.GoogleID,
		Role:             r.Role,
		SecurityQuestion: r.SecurityQuestion,
		SecurityAnswer:   r.SecurityAnswer,
		IsActive:         true,
	}
	if r.Role == "" {
		m.Role = "employee"
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

// UpdateUserRequest — partial update (pakai pointer agar bisa bedakan omit vs null)
type UpdateUserRequest struct {
	UserName         *string `json:"user_name,omitempty" validate:"omitempty,min=3,max=50"`
	FullName         *string `json:"full_name,omitempty" validate:"omitempty,min=3,max=100"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password         *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Role             *string `json:"role,omitempty" validate:"omitempty,oneof=employee admin"`
	SecurityQuestion *string `json:"security_question,omitempty" validate:"omitempty"`
	SecurityAnswer   *string `json:"security_answer,omitempty" validate:"omitempty,min=3,max=255"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

// Normalize — trims if present
func (r *UpdateUserRequest) Normalize() {
	if r.UserName != nil {
		v := strings.TrimSpace(*r.UserName)
		r.UserName = &v
	}
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.Email != nil {
		v := strings.TrimSpace(strings.ToLower(*r.Email))
		r.Email = &v
	}
	if r.Role != nil {
		v := strings.TrimSpace(strings.ToLower(*r.Role))
		r.Role = &v
	}
	if r.SecurityQuestion != nil {
		v := strings.TrimSpace(*r.SecurityQuestion)
		r.SecurityQuestion = &v
	}
	if r.SecurityAnswer != nil {
		v := strings.TrimSpace(*r.SecurityAnswer)
		r.SecurityAnswer = &v
	}
}

// ApplyToModel — terapkan perubahan parsial ke model existing
func (r *UpdateUserRequest) ApplyToModel(m *uModel.UserModel) {
	if r.UserName != nil {
		m.UserName = *r.UserName
	}
	if r.FullName != nil {
		m.FullName = *r.FullName
	}
	if r.Email != nil {
		m.Email = *r.Email
	}
	if r.Password != nil {
		m.Password = *r.Password // hash di controller sebelum Save
	}
	if r.Role != nil && *r.Role != "" {
		m.Role = *r.Role
	}
	if r.SecurityQuestion != nil {
		m.SecurityQuestion = *r.SecurityQuestion
	}
	if r.SecurityAnswer != nil {
		m.SecurityAnswer = *r.SecurityAnswer
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

// Default response (tanpa deleted_at; aman untuk publik)
type UserResponse struct {
	ID                   uuid.UUID `json:"id"`
	UserName             string    `json:"user_name"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	GoogleID             *string   `json:"google_id,omitempty"`
	Role                 string    `json:"role"`
	AvatarURL            *string   `json:"avatar_url,omitempty"`
	IsActive             bool      `json:"is_active"`
	DeviceBound          bool      `json:"device_bound"`
	DeviceResetRequested bool      `json:"device_reset_requested"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	// NOTE: Password, SecurityQuestion, SecurityAnswer disembunyikan
}

// FromModel — map model ke UserResponse
func FromModel(m *uModel.UserModel) *UserResponse {
	if m == nil {
		return nil
	}
	return &UserResponse{
		ID:                   m.ID,
		UserName:             m.UserName,
		FullName:             m.FullName,
		Email:                m.Email,
		GoogleID:             m.GoogleID,
		Role:                 m.Role,
		AvatarURL:            m.AvatarURL,
		IsActive:             m.IsActive,
		DeviceBound:          m.DeviceID != nil && *m.DeviceID != "",
		DeviceResetRequested: m.DeviceResetRequested,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func FromModelList(list []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
