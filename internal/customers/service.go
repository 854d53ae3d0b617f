package customers

import (
	"context"
	"fmt"

	"github.com/angelmondragon/backoffice-api/internal/accounts"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

const resourceName = "Customer"

// Service manages storefront customer accounts.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[CustomerDTO], error)
	Get(ctx context.Context, id int64) (*CustomerDTO, error)
	Create(ctx context.Context, input CreateInput) (*CustomerDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*CustomerDTO, error)
	Delete(ctx context.Context, id int64) error
	ValidatePassword(ctx context.Context, id int64, candidate string) (bool, error)
	SetAvatar(ctx context.Context, id int64, url *string) (*CustomerDTO, error)
}

type repository interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.Customer], error)
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	Create(ctx context.Context, row *models.Customer) error
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo     repository
	password config.PasswordConfig
}

func NewService(repo repository, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo, password: password}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[CustomerDTO], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, db.Classify(err, resourceName, "list customers")
	}
	return pagination.Page[CustomerDTO]{
		Rows:  FromModels(page.Rows),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*CustomerDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load customer")
	}
	return FromModel(row), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CustomerDTO, error) {
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
	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}
	hash, err := accounts.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, err
	}

	row := &models.Customer{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		AvatarURL:    accounts.TrimOptional(input.AvatarURL),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, db.Classify(err, resourceName, "create customer")
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*CustomerDTO, error) {
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
	if input.FirstName.Valid {
		if input.FirstName.Value == nil {
			return nil, accounts.Invalid("first_name", "first_name cannot be null")
		}
		name, err := accounts.RequireName("first_name", *input.FirstName.Value)
		if err != nil {
			return nil, err
		}
		fields["first_name"] = name
	}
	if input.LastName.Valid {
		if input.LastName.Value == nil {
			return nil, accounts.Invalid("last_name", "last_name cannot be null")
		}
		name, err := accounts.RequireName("last_name", *input.LastName.Value)
		if err != nil {
			return nil, err
		}
		fields["last_name"] = name
	}
	if input.Phone.Valid {
		phone, err := normalizePhone(input.Phone.Value)
		if err != nil {
			return nil, err
		}
		fields["phone"] = accounts.Column(phone)
	}
	if input.AvatarURL.Valid {
		fields["avatar_url"] = accounts.Column(accounts.TrimOptional(input.AvatarURL.Value))
	}

	row, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, resourceName, "update customer")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Classify(err, resourceName, "delete customer")
	}
	return nil
}

func (s *service) ValidatePassword(ctx context.Context, id int64, candidate string) (bool, error) {
	row, err := s.repo.FindByID(ctx, id)
	if db.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, db.Classify(err, resourceName, "load customer")
	}
	return accounts.CheckPassword(candidate, row.PasswordHash)
}

func (s *service) SetAvatar(ctx context.Context, id int64, url *string) (*CustomerDTO, error) {
	row, err := s.repo.Update(ctx, id, map[string]any{"avatar_url": accounts.Column(accounts.TrimOptional(url))})
	if err != nil {
		return nil, db.Classify(err, resourceName, "update avatar")
	}
	return FromModel(row), nil
}

func normalizePhone(raw *string) (*string, error) {
	phone := accounts.TrimOptional(raw)
	if phone != nil && len(*phone) > accounts.MaxPhoneLength {
		return nil, accounts.Invalid("phone", fmt.Sprintf("phone must be at most %d characters", accounts.MaxPhoneLength))
	}
	return phone, nil
}
