package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultAdminRole = "ADMIN"

type AdminUser struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Role         string     `json:"role" db:"role"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never return in JSON
	Active       bool       `json:"active" db:"active"`
	LastLoginAt  *time.Time `json:"lastLoginAt" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// AdminProfile is the public projection returned by login and /me.
type AdminProfile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

func (a *AdminUser) Profile() *AdminProfile {
	return &AdminProfile{
		ID:          a.ID.String(),
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		LastLoginAt: a.LastLoginAt,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	Admin *AdminProfile `json:"admin"`
}

type CreateAdminRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     *string `json:"role"`
}

type UpdateAdminRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}
