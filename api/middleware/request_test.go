package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestRequestIDPropagatesOrGenerates(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected propagated id, got %q", got)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := resp.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestRequestIDReplacesUnsafeHeader(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "bad id\twith spaces")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	got := resp.Header().Get(requestIDHeader)
	if got == "bad id\twith spaces" || len(got) != 36 {
		t.Fatalf("expected a fresh uuid, got %q", got)
	}
	if seen != got {
		t.Fatalf("context id %q does not match header %q", seen, got)
	}
}

func TestRecovererRethrowsAbortHandler(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecovererReturnsInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

type observedRequest struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	seen []observedRequest
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.seen = append(f.seen, observedRequest{method: method, route: route, status: status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	observer := &fakeObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/orders/{orderId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/77", nil))

	if len(observer.seen) != 1 {
		t.Fatalf("expected one observation, got %d", len(observer.seen))
	}
	got := observer.seen[0]
	if got.route != "/orders/{orderId}" || got.status != http.StatusNoContent || got.method != http.MethodGet {
		t.Fatalf("unexpected observation %+v", got)
	}
}
