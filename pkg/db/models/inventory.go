package models

import "time"

type InventoryLocation struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Address   *string   `gorm:"column:address" json:"address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InventoryLocation) TableName() string { return "inventory_locations" }

// InventoryProduct is the stock count of one product at one location; the
// (product_id, location_id) pair is unique.
type InventoryProduct struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID  int64     `gorm:"column:product_id;not null;uniqueIndex:ux_inventory_products_product_location" json:"product_id"`
	LocationID int64     `gorm:"column:location_id;not null;uniqueIndex:ux_inventory_products_product_location" json:"location_id"`
	Quantity   int       `gorm:"column:quantity;not null;default:0" json:"quantity"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InventoryProduct) TableName() string { return "inventory_products" }
