package models

import (
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductOption is a configurable axis of a product, e.g. "Size".
type ProductOption struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"column:product_id;not null;index" json:"product_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProductOption) TableName() string { return "product_options" }

// ProductOptionVariant is one value of an option, e.g. "XL".
type ProductOptionVariant struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OptionID  int64     `gorm:"column:option_id;not null;index" json:"option_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProductOptionVariant) TableName() string { return "product_option_variants" }

// SKUOption pins one option of a SKU to a variant.
type SKUOption struct {
	OptionID  int64 `json:"option_id"`
	VariantID int64 `json:"variant_id"`
}

// ProductOptionSKU is a purchasable combination of variants.
type ProductOptionSKU struct {
	ID        int64                     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID int64                     `gorm:"column:product_id;not null;index" json:"product_id"`
	SKU       string                    `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Price     decimal.Decimal           `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Options   types.JSONList[SKUOption] `gorm:"column:options;type:text;not null" json:"options"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                 `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProductOptionSKU) TableName() string { return "product_option_skus" }
