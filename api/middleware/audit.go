package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

// APIPrefix is where the resource routes are mounted; audit actions are
// recorded relative to it.
const APIPrefix = "/api/v1"

// AuditWriter persists audit rows.
type AuditWriter interface {
	Append(ctx context.Context, entry models.AuditLog) error
}

// Audit appends one audit row for every successful admin mutation. Write
// failures never change the response.
func Audit(writer AuditWriter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if writer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.statusCode()
			if status >= http.StatusBadRequest {
				return
			}
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || !principal.IsAdmin() {
				return
			}

			entry := buildAuditEntry(r, principal, status)
			if err := writer.Append(context.WithoutCancel(r.Context()), entry); err != nil && logg != nil {
				logg.Error(logg.WithField(r.Context(), "audit_action", entry.Action), "audit.append_failed", err)
			}
		})
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func buildAuditEntry(r *http.Request, principal Principal, status int) models.AuditLog {
	pattern := strings.TrimPrefix(routePattern(r), APIPrefix)
	adminID := principal.ID
	entry := models.AuditLog{
		AdminUserID: &adminID,
		Action:      r.Method + " " + pattern,
		Resource:    resourceFromPattern(pattern),
		StatusCode:  status,
	}
	if id := lastURLParam(r); id != "" {
		entry.ResourceID = &id
	}
	if ip := clientIP(r); ip != "" {
		entry.IP = &ip
	}
	return entry
}

func resourceFromPattern(pattern string) string {
	parts := make([]string, 0, 2)
	for _, segment := range strings.Split(strings.Trim(pattern, "/"), "/") {
		if segment == "" || strings.HasPrefix(segment, "{") || segment == "*" {
			break
		}
		parts = append(parts, segment)
	}
	if len(parts) == 0 {
		return "root"
	}
	return strings.Join(parts, "/")
}

func lastURLParam(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	values := rctx.URLParams.Values
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != "" {
			return values[i]
		}
	}
	return ""
}
