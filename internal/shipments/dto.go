package shipments

import (
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

var Sort = pagination.Sort{
	Columns:      []string{"id", "order_id", "status", "carrier", "shipped_at", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Desc,
}

var ItemSort = pagination.Sort{
	Columns:      []string{"id", "order_item_id", "quantity_shipped", "created_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

type CreateInput struct {
	OrderID        int64
	Carrier        string
	TrackingNumber *string
	Status         string
	ShippedAt      *time.Time
}

type UpdateInput struct {
	Carrier        types.Nullable[string]
	TrackingNumber types.Nullable[string]
	Status         types.Nullable[string]
	ShippedAt      types.Nullable[time.Time]
}

type ItemInput struct {
	OrderItemID     int64
	QuantityShipped int
}

type ItemUpdate struct {
	QuantityShipped types.Nullable[int]
}
