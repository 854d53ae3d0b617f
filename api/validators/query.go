package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseOptionalQueryID reads a positive int64 filter; absent yields nil.
func ParseOptionalQueryID(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParsePage reads page, limit, orderBy and order and checks them against
// the resource's sort allowlist.
func ParsePage(r *http.Request, sort pagination.Sort) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	q := r.URL.Query()
	params, err := sort.Normalize(pagination.Params{
		Page:    page,
		Limit:   limit,
		OrderBy: q.Get("orderBy"),
		Order:   pagination.Direction(q.Get("order")),
	})
	if err != nil {
		return pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return params, nil
}

// PathID parses a positive int64 chi URL parameter.
func PathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid id.").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
