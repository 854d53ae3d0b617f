package orders

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

var Sort = pagination.Sort{
	Columns:      []string{"id", "status", "total", "customer_id", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Desc,
}

var ItemSort = pagination.Sort{
	Columns:      []string{"id", "quantity", "price", "created_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

type CreateInput struct {
	CustomerID *int64
	Status     string
	Notes      *string
}

type UpdateInput struct {
	CustomerID types.Nullable[int64]
	Status     types.Nullable[string]
	Notes      types.Nullable[string]
}

// ItemInput creates an order line. A nil Price snapshots the product's
// current effective price.
type ItemInput struct {
	ProductID int64
	Quantity  int
	Price     *decimal.Decimal
}

type ItemUpdate struct {
	Quantity types.Nullable[int]
	Price    types.Nullable[decimal.Decimal]
}
