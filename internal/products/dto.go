package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

var Sort = pagination.Sort{
	Columns:      []string{"id", "name", "sku", "price", "created_at", "updated_at"},
	DefaultBy:    "id",
	DefaultOrder: pagination.Asc,
}

type CreateInput struct {
	SKU          string
	Name         string
	Description  *string
	Price        decimal.Decimal
	SalePrice    *decimal.Decimal
	SaleStart    *time.Time
	SaleEnd      *time.Time
	ProductMedia []models.ProductMediaItem
}

type UpdateInput struct {
	SKU          types.Nullable[string]
	Name         types.Nullable[string]
	Description  types.Nullable[string]
	Price        types.Nullable[decimal.Decimal]
	SalePrice    types.Nullable[decimal.Decimal]
	SaleStart    types.Nullable[time.Time]
	SaleEnd      types.Nullable[time.Time]
	ProductMedia types.Nullable[[]models.ProductMediaItem]
}
