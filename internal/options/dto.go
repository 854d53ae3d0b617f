package options

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

var OptionSort = pagination.Sort{
	Columns:      []string{"id", "name", "product_id", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

var VariantSort = pagination.Sort{
	Columns:      []string{"id", "name", "sort_order", "created_at", "updated_at"},
	DefaultBy:    "sort_order",
	DefaultOrder: pagination.Asc,
}

var SKUSort = pagination.Sort{
	Columns:      []string{"id", "sku", "price", "product_id", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

type OptionInput struct {
	ProductID int64
	Name      string
}

type OptionUpdate struct {
	Name types.Nullable[string]
}

type VariantInput struct {
	Name      string
	SortOrder int
}

type VariantUpdate struct {
	Name      types.Nullable[string]
	SortOrder types.Nullable[int]
}

type SKUInput struct {
	ProductID int64
	SKU       string
	Price     decimal.Decimal
	Options   []models.SKUOption
}

type SKUUpdate struct {
	SKU     types.Nullable[string]
	Price   types.Nullable[decimal.Decimal]
	Options types.Nullable[[]models.SKUOption]
}
