package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/backoffice-api/internal/categories"
	"github.com/angelmondragon/backoffice-api/internal/products"
	"github.com/angelmondragon/backoffice-api/internal/system"
	pkgAuth "github.com/angelmondragon/backoffice-api/pkg/auth"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/metrics"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	pkgredis "github.com/angelmondragon/backoffice-api/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCategories struct {
	categories.Service
	listCalls int
}

func (s *stubCategories) List(ctx context.Context, params pagination.Params) (pagination.Page[models.ProductCategory], error) {
	s.listCalls++
	return pagination.Page[models.ProductCategory]{
		Rows:  []models.ProductCategory{{ID: 1, Name: "Shoes"}},
		Total: 1,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

type stubProducts struct {
	products.Service
	createCalls int
}

func (s *stubProducts) Create(ctx context.Context, input products.CreateInput) (*models.Product, error) {
	s.createCalls++
	return &models.Product{ID: 7, SKU: input.SKU, Name: input.Name, Price: input.Price}, nil
}

type stubSystem struct {
	system.Service
	mu      sync.Mutex
	entries []models.AuditLog
}

func (s *stubSystem) ListPreferences(ctx context.Context, params pagination.Params) (pagination.Page[models.SystemPreference], error) {
	return pagination.Page[models.SystemPreference]{Rows: []models.SystemPreference{{Key: "theme", Value: "dark"}}, Total: 1, Page: 1, Limit: params.Limit}, nil
}

func (s *stubSystem) Append(ctx context.Context, entry models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", pkgredis.ErrNil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key], _ = value.(string)
	return true, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key], _ = value.(string)
	return nil
}

func (f *fakeRedis) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeRedis) IncrWithTTL(context.Context, string, time.Duration) (int64, error) { return 1, nil }

func (f *fakeRedis) RateLimitKey(scope string) string { return "rl:" + scope }

func (f *fakeRedis) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "backoffice-api", ExpirationMinutes: 30},
	}
}

func bearer(t *testing.T, cfg *config.Config, kind enums.PrincipalKind) string {
	t.Helper()
	return bearerWithRole(t, cfg, kind, enums.AdminRoleAdmin.String())
}

func bearerWithRole(t *testing.T, cfg *config.Config, kind enums.PrincipalKind, role string) string {
	t.Helper()
	token, _, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		PrincipalID: 42,
		Kind:        kind,
		Role:        role,
		Name:        "Router Test",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func newTestRouter(deps Dependencies) http.Handler {
	if deps.Config == nil {
		deps.Config = testConfig()
	}
	deps.Logger = logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	deps.Database = stubPinger{}
	return NewRouter(deps)
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(Dependencies{Metrics: metrics.NewHTTPMetrics(reg), Gatherer: reg})

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "backoffice_http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	cfg := testConfig()
	cats := &stubCategories{}
	router := newTestRouter(Dependencies{Config: cfg, Categories: cats})

	cases := []struct {
		name   string
		auth   string
		status int
	}{
		{name: "missing token", status: http.StatusUnauthorized},
		{name: "customer token", auth: bearer(t, cfg, enums.PrincipalKindCustomer), status: http.StatusForbidden},
		{name: "admin token", auth: bearer(t, cfg, enums.PrincipalKindAdmin), status: http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/product_categories", nil)
		if tc.auth != "" {
			req.Header.Set("Authorization", tc.auth)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.status, resp.Code)
		}
	}
	if cats.listCalls != 1 {
		t.Fatalf("expected one list call, got %d", cats.listCalls)
	}
}

func TestStaffCannotManageAdminUsers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(Dependencies{Config: cfg})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/adminUsers", nil)
	req.Header.Set("Authorization", bearerWithRole(t, cfg, enums.PrincipalKindAdmin, enums.AdminRoleStaff.String()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff got %d", resp.Code)
	}
}

func TestPreferenceReadsArePublicWritesAreNot(t *testing.T) {
	router := newTestRouter(Dependencies{System: &stubSystem{}})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/system/preferences", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected public read 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/api/v1/system/preferences/theme", strings.NewReader(`{"value":"light"}`)))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected write without token 401 got %d", resp.Code)
	}
}

func TestAdminMutationIsAuditedAndReplayed(t *testing.T) {
	cfg := testConfig()
	prods := &stubProducts{}
	sys := &stubSystem{}
	router := newTestRouter(Dependencies{Config: cfg, Products: prods, System: sys, Redis: newFakeRedis()})
	token := bearer(t, cfg, enums.PrincipalKindAdmin)

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"sku":"SKU-1","name":"Lamp","price":"19.99"}`))
		req.Header.Set("Authorization", token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "create-lamp")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d: %s", i, resp.Code, resp.Body.String())
		}
		bodies = append(bodies, resp.Body.String())
	}

	if prods.createCalls != 1 {
		t.Fatalf("expected replay to skip the service, got %d calls", prods.createCalls)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("expected identical replay body")
	}

	var payload struct {
		Data struct {
			Product struct {
				SKU string `json:"sku"`
			} `json:"product"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(bodies[0]), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data.Product.SKU != "SKU-1" {
		t.Fatalf("unexpected product payload %s", bodies[0])
	}

	sys.mu.Lock()
	defer sys.mu.Unlock()
	if len(sys.entries) == 0 {
		t.Fatal("expected an audit entry")
	}
	entry := sys.entries[0]
	if entry.Resource != "products" || strings.TrimSuffix(entry.Action, "/") != "POST /products" {
		t.Fatalf("unexpected audit entry %+v", entry)
	}
	if entry.AdminUserID == nil || *entry.AdminUserID != 42 {
		t.Fatalf("expected actor 42, got %v", entry.AdminUserID)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(Dependencies{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
