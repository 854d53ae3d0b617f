package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/angelmondragon/backoffice-api/pkg/config"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	logg := testLogger()

	rec, env := serve(t, HealthReady(cfg, logg, stubPinger{}, nil), newRequest(context.Background(), http.MethodGet, "/health/ready", "", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var data struct {
		Checks map[string]string `json:"checks"`
	}
	decodeData(t, env, &data)
	if data.Checks["database"] != "ok" || data.Checks["redis"] != "disabled" {
		t.Fatalf("unexpected checks: %v", data.Checks)
	}
	if rec.Header().Get("X-Backoffice-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-Backoffice-Env"))
	}

	rec, _ = serve(t, HealthReady(cfg, logg, stubPinger{}, stubPinger{err: errors.New("connection refused")}), newRequest(context.Background(), http.MethodGet, "/health/ready", "", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when redis is down, got %d", rec.Code)
	}

	rec, _ = serve(t, HealthReady(cfg, logg, nil, nil), newRequest(context.Background(), http.MethodGet, "/health/ready", "", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without database, got %d", rec.Code)
	}
}

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	rec, env := serve(t, HealthLive(cfg), newRequest(context.Background(), http.MethodGet, "/health/live", "", nil))
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("unexpected live response: %d %+v", rec.Code, env)
	}
}
