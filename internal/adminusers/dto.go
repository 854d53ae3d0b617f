package adminusers

import (
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

var Sort = pagination.Sort{
	Columns:      []string{"id", "email", "first_name", "last_name", "role_name", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

// AdminUserDTO is the transport shape; the password hash is never projected.
type AdminUserDTO struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	RoleName    string     `json:"role_name"`
	AvatarURL   *string    `json:"avatar_url"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleName  string
	AvatarURL *string
	IsActive  *bool
}

type UpdateInput struct {
	Email     types.Nullable[string]
	Password  types.Nullable[string]
	FirstName types.Nullable[string]
	LastName  types.Nullable[string]
	RoleName  types.Nullable[string]
	AvatarURL types.Nullable[string]
	IsActive  types.Nullable[bool]
}

func FromModel(u *models.AdminUser) *AdminUserDTO {
	if u == nil {
		return nil
	}
	return &AdminUserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		RoleName:    u.RoleName,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func FromModels(rows []models.AdminUser) []AdminUserDTO {
	out := make([]AdminUserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
