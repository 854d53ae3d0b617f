package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/angelmondragon/backoffice-api/internal/system"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

type stubSystemService struct {
	system.Service
	key    string
	value  string
	filter system.AuditFilter
	status system.DatabaseStatus
}

func (s *stubSystemService) SetPreference(_ context.Context, key, value string) (*models.SystemPreference, error) {
	s.key = key
	s.value = value
	return &models.SystemPreference{ID: 1, Key: key, Value: value}, nil
}

func (s *stubSystemService) ListAudit(_ context.Context, params pagination.Params, filter system.AuditFilter) (pagination.Page[models.AuditLog], error) {
	s.filter = filter
	return pagination.Page[models.AuditLog]{Page: params.Page, Limit: params.Limit}, nil
}

func (s *stubSystemService) DatabaseStatus(context.Context) system.DatabaseStatus {
	return s.status
}

func TestPreferenceSet(t *testing.T) {
	stub := &stubSystemService{}
	req := newRequest(context.Background(), http.MethodPut, "/system/preferences/store.currency", `{"value":"EUR"}`, map[string]string{"key": "store.currency"})
	rec, _ := serve(t, PreferenceSet(stub, testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.key != "store.currency" || stub.value != "EUR" {
		t.Fatalf("unexpected preference: %q=%q", stub.key, stub.value)
	}

	missing := newRequest(context.Background(), http.MethodPut, "/system/preferences/a", `{}`, map[string]string{"key": "a"})
	if rec, _ := serve(t, PreferenceSet(&stubSystemService{}, testLogger()), missing); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without value, got %d", rec.Code)
	}
}

func TestAuditLogListFilters(t *testing.T) {
	stub := &stubSystemService{}
	req := newRequest(context.Background(), http.MethodGet, "/system/audit_logs?admin_user_id=2&resource=orders", "", nil)
	rec, env := serve(t, AuditLogList(stub, testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.filter.AdminUserID == nil || *stub.filter.AdminUserID != 2 || stub.filter.Resource != "orders" {
		t.Fatalf("unexpected filter: %+v", stub.filter)
	}
	var data struct {
		AuditLogs []models.AuditLog `json:"audit_logs"`
	}
	decodeData(t, env, &data)
	if data.AuditLogs == nil {
		t.Fatal("expected empty list rather than null")
	}
}

func TestDatabaseStatusDegraded(t *testing.T) {
	stub := &stubSystemService{status: system.DatabaseStatus{Healthy: false, Errors: []string{"ping: timeout"}}}
	rec, env := serve(t, DatabaseStatus(stub, testLogger()), newRequest(context.Background(), http.MethodGet, "/system/database_status", "", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.Message != "Database degraded: ping: timeout" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}
