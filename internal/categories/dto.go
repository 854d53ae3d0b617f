package categories

import (
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

// Sort is the list ordering allowlist for categories.
var Sort = pagination.Sort{
	Columns:      []string{"id", "name", "created_at", "updated_at", "parent_category_id"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

// CreateInput is the validated payload for a new category.
type CreateInput struct {
	Name             string
	Description      *string
	ParentCategoryID *int64
	HeroImage        *string
}

// UpdateInput carries only the fields present in the request body; an
// explicit null clears a nullable column.
type UpdateInput struct {
	Name             types.Nullable[string]
	Description      types.Nullable[string]
	ParentCategoryID types.Nullable[int64]
	HeroImage        types.Nullable[string]
}

// Detail is a category plus the names of its ancestors, root first.
type Detail struct {
	models.ProductCategory
	Lineage []string `json:"lineage"`
}
