package middleware

import (
	"context"

	"github.com/angelmondragon/backoffice-api/pkg/enums"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// Principal is the authenticated caller resolved from the bearer token.
type Principal struct {
	ID   int64
	Kind enums.PrincipalKind
	Role string
	Name string
}

// IsAdmin reports whether the principal belongs to the admin_users table.
func (p Principal) IsAdmin() bool {
	return p.Kind == enums.PrincipalKindAdmin
}

// WithPrincipal injects the caller into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFromContext returns the caller seeded by Auth, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}
