package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/backoffice-api/internal/adminusers"
	"github.com/angelmondragon/backoffice-api/internal/customers"
	pkgAuth "github.com/angelmondragon/backoffice-api/pkg/auth"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/security"
)

const invalidCredentialsMessage = "Invalid credentials."

// Service authenticates admins and customers and resolves the caller.
type Service interface {
	AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error)
	CustomerLogin(ctx context.Context, req LoginRequest) (*CustomerLoginResponse, error)
	AdminMe(ctx context.Context, id int64) (*adminusers.AdminUserDTO, error)
	CustomerMe(ctx context.Context, id int64) (*customers.CustomerDTO, error)
}

type adminRepository interface {
	FindByID(ctx context.Context, id int64) (*models.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

type customerRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Admins    adminRepository
	Customers customerRepository
	JWTConfig config.JWTConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	admins    adminRepository
	customers customerRepository
	jwtCfg    config.JWTConfig
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		admins:    params.Admins,
		customers: params.Customers,
		jwtCfg:    params.JWTConfig,
		logg:      params.Logger,
		now:       params.Now,
	}, nil
}

func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, invalidCredentials()
	}

	user, err := s.admins.FindByEmail(ctx, email)
	if db.IsNotFound(err) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, db.Classify(err, "Admin user", "load admin user")
	}
	if err := checkPassword(req.Password, user.PasswordHash); err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, invalidCredentials()
	}

	now := s.now().UTC()
	token, expiresAt, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		PrincipalID: user.ID,
		Kind:        enums.PrincipalKindAdmin,
		Role:        user.RoleName,
		Name:        displayName(user.FirstName, user.LastName),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	if err := s.admins.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"admin_user_id": user.ID, "error": err.Error()}), "auth.last_login_update_failed")
	} else {
		user.LastLoginAt = &now
	}

	return &AdminLoginResponse{Token: token, ExpiresAt: expiresAt, User: adminusers.FromModel(user)}, nil
}

func (s *service) CustomerLogin(ctx context.Context, req LoginRequest) (*CustomerLoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, invalidCredentials()
	}

	customer, err := s.customers.FindByEmail(ctx, email)
	if db.IsNotFound(err) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, db.Classify(err, "Customer", "load customer")
	}
	if err := checkPassword(req.Password, customer.PasswordHash); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	token, expiresAt, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		PrincipalID: customer.ID,
		Kind:        enums.PrincipalKindCustomer,
		Role:        enums.PrincipalKindCustomer.String(),
		Name:        displayName(customer.FirstName, customer.LastName),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	if err := s.customers.UpdateLastLogin(ctx, customer.ID, now); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"customer_id": customer.ID, "error": err.Error()}), "auth.last_login_update_failed")
	} else {
		customer.LastLoginAt = &now
	}

	return &CustomerLoginResponse{Token: token, ExpiresAt: expiresAt, User: customers.FromModel(customer)}, nil
}

func (s *service) AdminMe(ctx context.Context, id int64) (*adminusers.AdminUserDTO, error) {
	user, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "Admin user", "load admin user")
	}
	return adminusers.FromModel(user), nil
}

func (s *service) CustomerMe(ctx context.Context, id int64) (*customers.CustomerDTO, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "Customer", "load customer")
	}
	return customers.FromModel(customer), nil
}

func checkPassword(candidate, hash string) error {
	ok, err := security.VerifyPassword(candidate, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return invalidCredentials()
	}
	return nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
