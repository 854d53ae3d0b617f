package inventory

import (
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

var LocationSort = pagination.Sort{
	Columns:      []string{"id", "name", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

var StockSort = pagination.Sort{
	Columns:      []string{"id", "product_id", "location_id", "quantity", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

type LocationInput struct {
	Name    string
	Address *string
}

type LocationUpdate struct {
	Name    types.Nullable[string]
	Address types.Nullable[string]
}

// StockFilter narrows inventory rows by product and/or location.
type StockFilter struct {
	ProductID  *int64
	LocationID *int64
}

type StockInput struct {
	ProductID  int64
	LocationID int64
	Quantity   int
}
