package controllers

import (
	"net/http"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

// listPayload renders a page as {<key>: rows, total, page, limit}.
func listPayload[T any](key string, page pagination.Page[T]) map[string]any {
	rows := page.Rows
	if rows == nil {
		rows = []T{}
	}
	return map[string]any{
		key:     rows,
		"total": page.Total,
		"page":  page.Page,
		"limit": page.Limit,
	}
}

func writeUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}

// nestedIDs parses a parent id and a child id from the route.
func nestedIDs(r *http.Request, parentKey, childKey string) (int64, int64, error) {
	parentID, err := validators.PathID(r, parentKey)
	if err != nil {
		return 0, 0, err
	}
	childID, err := validators.PathID(r, childKey)
	if err != nil {
		return 0, 0, err
	}
	return parentID, childID, nil
}
