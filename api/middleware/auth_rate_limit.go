package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

const maxRateLimitBodyBytes = 64 << 10

// RateLimitStore is the counter surface backed by pkg/redis.
type RateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// AuthRateLimitPolicy defines the throttling parameters for a login surface.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "login"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

// LoginRateLimitPolicy derives a named login policy from configuration.
func LoginRateLimitPolicy(name string, cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy(name, cfg.LoginWindow, cfg.LoginIPLimit, cfg.LoginEmailLimit)
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) scope(kind, value string) string {
	return strings.Join([]string{p.name, kind, value}, ":")
}

// AuthRateLimit enforces fixed-window per-IP and per-email counters on login
// routes. Counter failures are logged and the request proceeds.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if ip := clientIP(r); ip != "" {
					if blocked, count := exceeded(ctx, logg, store, policy.scope("ip", ip), policy.window, policy.ipLimit); blocked {
						respondRateLimited(ctx, logg, w, policy, map[string]any{"ip": ip}, count, policy.ipLimit)
						return
					}
				}
			}

			if policy.emailLimit > 0 && r.Body != nil {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxRateLimitBodyBytes))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Unable to read request body."))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := normalizeEmail(extractEmail(body)); email != "" {
					hash := hashValue(email)
					if blocked, count := exceeded(ctx, logg, store, policy.scope("email", hash), policy.window, policy.emailLimit); blocked {
						respondRateLimited(ctx, logg, w, policy, map[string]any{"email_hash": hash}, count, policy.emailLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func exceeded(ctx context.Context, logg *logger.Logger, store RateLimitStore, scope string, window time.Duration, limit int) (bool, int64) {
	count, err := store.IncrWithTTL(ctx, store.RateLimitKey(scope), window)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "auth.rate_limit.unavailable")
		}
		return false, 0
	}
	return count > int64(limit), count
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, fields map[string]any, count int64, limit int) {
	if logg != nil {
		fields["policy"] = policy.name
		fields["attempts"] = count
		fields["limit"] = limit
		fields["window_seconds"] = int(policy.window.Seconds())
		logg.Warn(logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "Too many attempts. Try again later."))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
