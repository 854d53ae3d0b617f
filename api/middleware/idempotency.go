package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/backoffice-api/api/responses"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	pkgredis "github.com/angelmondragon/backoffice-api/pkg/redis"
)

const (
	idempotencyTTL = 24 * time.Hour
	// lifetime of the in-flight marker
	idempotencyLockTTL = 2 * time.Minute
)

const idempotencyHeader = "Idempotency-Key"

type idempotencyRule struct {
	method  string
	pattern string
}

// Create and upsert routes whose responses can be replayed.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, pattern: "/product_categories"},
	{method: http.MethodPost, pattern: "/adminUsers"},
	{method: http.MethodPost, pattern: "/customers"},
	{method: http.MethodPost, pattern: "/products"},
	{method: http.MethodPost, pattern: "/product_options"},
	{method: http.MethodPost, pattern: "/product_options/{optionId}/variants"},
	{method: http.MethodPost, pattern: "/product_option_skus"},
	{method: http.MethodPost, pattern: "/orders"},
	{method: http.MethodPost, pattern: "/orders/{orderId}/items"},
	{method: http.MethodPost, pattern: "/shipments"},
	{method: http.MethodPost, pattern: "/shipments/{shipmentId}/items"},
	{method: http.MethodPost, pattern: "/inventory/locations"},
	{method: http.MethodPut, pattern: "/inventory/products"},
}

type idempotencyRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
	Pending     bool              `json:"pending,omitempty"`
}

func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempotencyKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if idempotencyKey == "" || store == nil || !isIdempotentRoute(r.Method, mountedPath(r)) {
				next.ServeHTTP(w, r)
				return
			}
			if len(idempotencyKey) > 200 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key is too long."))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			scope := buildScope(r)
			key := store.IdempotencyKey(scope, idempotencyKey)

			marker, err := json.Marshal(idempotencyRecord{Pending: true, RequestHash: requestHash})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode idempotency marker"))
				return
			}
			acquired, err := store.SetNX(r.Context(), key, string(marker), idempotencyLockTTL)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !acquired {
				replayOrReject(w, r, store, key, requestHash, logg)
				return
			}

			// The marker is released unless a successful response replaces it,
			// including when the handler panics.
			stored := false
			defer func() {
				if stored {
					return
				}
				if delErr := store.Del(context.WithoutCancel(r.Context()), key); delErr != nil {
					logError(r.Context(), logg, "release idempotency key", delErr)
				}
			}()

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if defaultStatus(rec.status) >= http.StatusBadRequest {
				return
			}

			record := idempotencyRecord{
				Status:      defaultStatus(rec.status),
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				RequestHash: requestHash,
			}
			if ct := rec.Header().Get("Content-Type"); ct != "" {
				record.Headers = map[string]string{"Content-Type": ct}
			}

			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				logError(r.Context(), logg, "marshal idempotency record", marshalErr)
				return
			}
			if setErr := store.Set(context.WithoutCancel(r.Context()), key, string(payload), idempotencyTTL); setErr != nil {
				logError(r.Context(), logg, "persist idempotency record", setErr)
				return
			}
			stored = true
		})
	}
}

// replayOrReject answers a request whose key is already reserved: a finished
// record with the same body is replayed, anything else is a conflict.
func replayOrReject(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, key, requestHash string, logg *logger.Logger) {
	stored, err := store.Get(r.Context(), key)
	switch {
	case errors.Is(err, pkgredis.ErrNil):
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "A request with this Idempotency-Key is still in progress."))
		return
	case err != nil:
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return
	}

	record, err := decodeRecord(stored)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case record.RequestHash != requestHash:
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key was already used with a different request body."))
	case record.Pending:
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "A request with this Idempotency-Key is still in progress."))
	default:
		writeStoredResponse(w, record)
	}
}

func buildScope(r *http.Request) string {
	caller := "anonymous"
	if p, ok := PrincipalFromContext(r.Context()); ok {
		caller = p.Kind.String() + ":" + strconv.FormatInt(p.ID, 10)
	}
	return strings.Join([]string{caller, r.Method, r.URL.Path}, "|")
}

func decodeRecord(payload string) (*idempotencyRecord, error) {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func writeStoredResponse(w http.ResponseWriter, record *idempotencyRecord) {
	if record == nil {
		return
	}
	if ct, ok := record.Headers["Content-Type"]; ok && ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

func routePattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// mountedPath is the request path below the router mount point, falling
// back to the full URL path outside chi.
func mountedPath(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil && ctx.RoutePath != "" {
		return ctx.RoutePath
	}
	return r.URL.Path
}

func isIdempotentRoute(method, path string) bool {
	for _, rule := range idempotencyRules {
		if rule.method == method && matchPath(rule.pattern, path) {
			return true
		}
	}
	return false
}

// matchPath compares a chi-style pattern to a request path segment by
// segment; "{param}" segments match any non-empty value.
func matchPath(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if strings.HasPrefix(want[i], "{") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
