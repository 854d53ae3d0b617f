package models

import (
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductMediaItem is one entry of products.product_media.
type ProductMediaItem struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Alt  string `json:"alt,omitempty"`
}

// Product is a sellable catalog entry.
type Product struct {
	ID           int64                            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SKU          string                           `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Name         string                           `gorm:"column:name;not null" json:"name"`
	Description  *string                          `gorm:"column:description" json:"description"`
	Price        decimal.Decimal                  `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	SalePrice    decimal.NullDecimal              `gorm:"column:sale_price;type:numeric(12,2)" json:"sale_price"`
	SaleStart    *time.Time                       `gorm:"column:sale_start" json:"sale_start"`
	SaleEnd      *time.Time                       `gorm:"column:sale_end" json:"sale_end"`
	ProductMedia types.JSONList[ProductMediaItem] `gorm:"column:product_media;type:text;not null" json:"product_media"`
	CreatedAt    time.Time                        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }
