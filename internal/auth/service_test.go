package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	pkgAuth "github.com/angelmondragon/backoffice-api/pkg/auth"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/security"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "backoffice", ExpirationMinutes: 30}

func TestAdminLoginIssuesAdminToken(t *testing.T) {
	admins := &stubAdminRepo{user: &models.AdminUser{
		ID:           7,
		Email:        "ops@example.com",
		PasswordHash: mustHashPassword(t, "s3cret-pass"),
		FirstName:    "Grace",
		LastName:     "Hopper",
		RoleName:     "super_admin",
		IsActive:     true,
	}}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := buildTestService(t, admins, &stubCustomerRepo{}, now)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Email: " OPS@example.com ", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !resp.ExpiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %s", resp.ExpiresAt)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.PrincipalID != 7 || claims.Kind != enums.PrincipalKindAdmin || claims.Role != "super_admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Name != "Grace Hopper" {
		t.Fatalf("unexpected name claim %q", claims.Name)
	}
	if resp.User == nil || resp.User.Email != "ops@example.com" {
		t.Fatalf("unexpected user %+v", resp.User)
	}
	if admins.lastLogin == nil || !admins.lastLogin.Equal(now) {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestAdminLoginRejections(t *testing.T) {
	hash := mustHashPassword(t, "s3cret-pass")
	cases := []struct {
		name     string
		user     *models.AdminUser
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "s3cret-pass"},
		{name: "wrong password", user: &models.AdminUser{ID: 1, Email: "ops@example.com", PasswordHash: hash, IsActive: true}, email: "ops@example.com", password: "guess"},
		{name: "inactive", user: &models.AdminUser{ID: 1, Email: "ops@example.com", PasswordHash: hash, IsActive: false}, email: "ops@example.com", password: "s3cret-pass"},
		{name: "blank", email: " ", password: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			admins := &stubAdminRepo{user: tc.user}
			svc := buildTestService(t, admins, &stubCustomerRepo{}, time.Now())
			_, err := svc.AdminLogin(context.Background(), LoginRequest{Email: tc.email, Password: tc.password})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if typed.Message() != invalidCredentialsMessage {
				t.Fatalf("unexpected message %q", typed.Message())
			}
			if admins.lastLogin != nil {
				t.Fatalf("last login must not change on failure")
			}
		})
	}
}

func TestCustomerLoginIssuesCustomerToken(t *testing.T) {
	customers := &stubCustomerRepo{customer: &models.Customer{
		ID:           11,
		Email:        "ada@example.com",
		PasswordHash: mustHashPassword(t, "hunter2-hunter2"),
		FirstName:    "Ada",
		LastName:     "Lovelace",
	}}
	svc := buildTestService(t, &stubAdminRepo{}, customers, time.Now())

	resp, err := svc.CustomerLogin(context.Background(), LoginRequest{Email: "ada@example.com", Password: "hunter2-hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Kind != enums.PrincipalKindCustomer || claims.PrincipalID != 11 {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	customers := &stubCustomerRepo{
		customer:  &models.Customer{ID: 3, Email: "c@example.com", PasswordHash: mustHashPassword(t, "hunter2-hunter2")},
		updateErr: errors.New("write failed"),
	}
	svc := buildTestService(t, &stubAdminRepo{}, customers, time.Now())
	if _, err := svc.CustomerLogin(context.Background(), LoginRequest{Email: "c@example.com", Password: "hunter2-hunter2"}); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}

func TestMeNotFoundAfterDelete(t *testing.T) {
	svc := buildTestService(t, &stubAdminRepo{}, &stubCustomerRepo{}, time.Now())
	_, err := svc.AdminMe(context.Background(), 99)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = svc.CustomerMe(context.Background(), 99)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewServiceRequiresRepositories(t *testing.T) {
	if _, err := NewService(ServiceParams{Customers: &stubCustomerRepo{}}); err == nil {
		t.Fatal("expected error without admin repository")
	}
	if _, err := NewService(ServiceParams{Admins: &stubAdminRepo{}}); err == nil {
		t.Fatal("expected error without customer repository")
	}
}

func buildTestService(t *testing.T, admins *stubAdminRepo, customers *stubCustomerRepo, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Admins:    admins,
		Customers: customers,
		JWTConfig: testJWT,
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{BcryptCost: 4})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubAdminRepo struct {
	user      *models.AdminUser
	lastLogin *time.Time
}

func (s *stubAdminRepo) FindByID(_ context.Context, id int64) (*models.AdminUser, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubAdminRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	row := *s.user
	return &row, nil
}

func (s *stubAdminRepo) UpdateLastLogin(_ context.Context, _ int64, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubCustomerRepo struct {
	customer  *models.Customer
	updateErr error
}

func (s *stubCustomerRepo) FindByID(_ context.Context, id int64) (*models.Customer, error) {
	if s.customer == nil || s.customer.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customer, nil
}

func (s *stubCustomerRepo) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	if s.customer == nil || s.customer.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	row := *s.customer
	return &row, nil
}

func (s *stubCustomerRepo) UpdateLastLogin(_ context.Context, _ int64, _ time.Time) error {
	return s.updateErr
}
