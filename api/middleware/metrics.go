package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics records request counts and latency keyed by chi route pattern.
func Metrics(observer requestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			observer.ObserveRequest(r.Method, route, rec.statusCode(), time.Since(start))
		})
	}
}
