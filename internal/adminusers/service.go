package adminusers

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/backoffice-api/internal/accounts"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

const resourceName = "Admin user"

// Service manages back-office operator accounts.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[AdminUserDTO], error)
	Get(ctx context.Context, id int64) (*AdminUserDTO, error)
	Create(ctx context.Context, input CreateInput) (*AdminUserDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*AdminUserDTO, error)
	Delete(ctx context.Context, id int64) error
	ValidatePassword(ctx context.Context, id int64, candidate string) (bool, error)
	SetAvatar(ctx context.Context, id int64, url *string) (*AdminUserDTO, error)
}

type repository interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.AdminUser], error)
	FindByID(ctx context.Context, id int64) (*models.AdminUser, error)
	Create(ctx context.Context, row *models.AdminUser) error
	Update(ctx context.Context, id int64, fields map[string]any) (*models.AdminUser, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo     repository
	password config.PasswordConfig
}

func NewService(repo repository, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin user repository required")
	}
	return &service{repo: repo, password: password}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[AdminUserDTO], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[AdminUserDTO]{}, db.Classify(err, resourceName, "list admin users")
	}
	return pagination.Page[AdminUserDTO]{
		Rows:  FromModels(page.Rows),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*AdminUserDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load admin user")
	}
	return FromModel(row), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*AdminUserDTO, error) {
	email, err := accounts.NormalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	firstName, err := accounts.RequireName("first_name", input.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := accounts.RequireName("last_name", input.LastName)
	if err != nil {
		return nil, err
	}
	role := enums.AdminRoleAdmin
	if strings.TrimSpace(input.RoleName) != "" {
		if role, err = parseRole(input.RoleName); err != nil {
			return nil, err
		}
	}
	hash, err := accounts.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	row := &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		RoleName:     role.String(),
		AvatarURL:    accounts.TrimOptional(input.AvatarURL),
		IsActive:     isActive,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, db.Classify(err, resourceName, "create admin user")
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*AdminUserDTO, error) {
	fields := map[string]any{}

	if input.Email.Valid {
		if input.Email.Value == nil {
			return nil, accounts.Invalid("email", "email cannot be null")
		}
		email, err := accounts.NormalizeEmail(*input.Email.Value)
		if err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if input.Password.Valid {
		if input.Password.Value == nil {
			return nil, accounts.Invalid("password", "password cannot be null")
		}
		hash, err := accounts.HashPassword(*input.Password.Value, s.password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	if err := setName(fields, "first_name", input.FirstName); err != nil {
		return nil, err
	}
	if err := setName(fields, "last_name", input.LastName); err != nil {
		return nil, err
	}
	if input.RoleName.Valid {
		if input.RoleName.Value == nil {
			return nil, accounts.Invalid("role_name", "role_name cannot be null")
		}
		role, err := parseRole(*input.RoleName.Value)
		if err != nil {
			return nil, err
		}
		fields["role_name"] = role.String()
	}
	if input.AvatarURL.Valid {
		fields["avatar_url"] = accounts.Column(accounts.TrimOptional(input.AvatarURL.Value))
	}
	if input.IsActive.Valid {
		if input.IsActive.Value == nil {
			return nil, accounts.Invalid("is_active", "is_active cannot be null")
		}
		fields["is_active"] = *input.IsActive.Value
	}

	row, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, resourceName, "update admin user")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Classify(err, resourceName, "delete admin user")
	}
	return nil
}

// ValidatePassword reports whether candidate matches the stored hash. An
// unknown id answers false like a wrong password.
func (s *service) ValidatePassword(ctx context.Context, id int64, candidate string) (bool, error) {
	row, err := s.repo.FindByID(ctx, id)
	if db.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, db.Classify(err, resourceName, "load admin user")
	}
	return accounts.CheckPassword(candidate, row.PasswordHash)
}

// SetAvatar replaces or clears (nil) avatar_url.
func (s *service) SetAvatar(ctx context.Context, id int64, url *string) (*AdminUserDTO, error) {
	row, err := s.repo.Update(ctx, id, map[string]any{"avatar_url": accounts.Column(accounts.TrimOptional(url))})
	if err != nil {
		return nil, db.Classify(err, resourceName, "update avatar")
	}
	return FromModel(row), nil
}

func setName(fields map[string]any, column string, value types.Nullable[string]) error {
	if !value.Valid {
		return nil
	}
	if value.Value == nil {
		return accounts.Invalid(column, column+" cannot be null")
	}
	name, err := accounts.RequireName(column, *value.Value)
	if err != nil {
		return err
	}
	fields[column] = name
	return nil
}

func parseRole(raw string) (enums.AdminRole, error) {
	role, err := enums.ParseAdminRole(strings.TrimSpace(raw))
	if err != nil {
		return "", accounts.Invalid("role_name", "role_name must be one of super_admin, admin, staff")
	}
	return role, nil
}
