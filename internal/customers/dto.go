package customers

import (
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

var Sort = pagination.Sort{
	Columns:      []string{"id", "email", "first_name", "last_name", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

type CustomerDTO struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       *string    `json:"phone"`
	AvatarURL   *string    `json:"avatar_url"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	AvatarURL *string
}

type UpdateInput struct {
	Email     types.Nullable[string]
	Password  types.Nullable[string]
	FirstName types.Nullable[string]
	LastName  types.Nullable[string]
	Phone     types.Nullable[string]
	AvatarURL types.Nullable[string]
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:          c.ID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Phone:       c.Phone,
		AvatarURL:   c.AvatarURL,
		LastLoginAt: c.LastLoginAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromModels(rows []models.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
