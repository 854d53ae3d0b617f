package pagination

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimit is the page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Params holds offset pagination and ordering inputs.
type Params struct {
	Page    int
	Limit   int
	OrderBy string
	Order   Direction
}

// Sort names the orderable columns of a resource and its default ordering.
type Sort struct {
	Columns      []string
	DefaultBy    string
	DefaultOrder Direction
}

// Page is one slice of a listing plus the total row count.
type Page[T any] struct {
	Rows  []T
	Total int64
	Page  int
	Limit int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset returns the zero-based row offset for the page.
func (p Params) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * NormalizeLimit(p.Limit)
}

// Desc reports whether the direction is descending.
func (p Params) Desc() bool {
	return p.Order == Desc
}

// Normalize fills defaults and checks OrderBy against the allowlist. The
// returned OrderBy is always one of s.Columns.
func (s Sort) Normalize(p Params) (Params, error) {
	out := Params{Page: p.Page, Limit: NormalizeLimit(p.Limit)}
	if out.Page < 1 {
		out.Page = 1
	}

	orderBy := strings.TrimSpace(p.OrderBy)
	if orderBy == "" {
		orderBy = s.DefaultBy
	}
	if !s.allows(orderBy) {
		return Params{}, fmt.Errorf("orderBy must be one of %s", strings.Join(s.Columns, ", "))
	}
	out.OrderBy = orderBy

	switch Direction(strings.ToLower(strings.TrimSpace(string(p.Order)))) {
	case "":
		out.Order = s.DefaultOrder
		if out.Order == "" {
			out.Order = Asc
		}
	case Asc:
		out.Order = Asc
	case Desc:
		out.Order = Desc
	default:
		return Params{}, fmt.Errorf("order must be asc or desc")
	}
	return out, nil
}

func (s Sort) allows(column string) bool {
	for _, candidate := range s.Columns {
		if candidate == column {
			return true
		}
	}
	return false
}
