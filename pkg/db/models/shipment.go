package models

import (
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/enums"
)

type Shipment struct {
	ID             int64                `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID        int64                `gorm:"column:order_id;not null;index" json:"order_id"`
	Carrier        string               `gorm:"column:carrier;not null" json:"carrier"`
	TrackingNumber *string              `gorm:"column:tracking_number" json:"tracking_number"`
	Status         enums.ShipmentStatus `gorm:"column:status;not null;default:pending" json:"status"`
	ShippedAt      *time.Time           `gorm:"column:shipped_at" json:"shipped_at"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Shipment) TableName() string { return "shipments" }

type ShipmentItem struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ShipmentID      int64     `gorm:"column:shipment_id;not null;index" json:"shipment_id"`
	OrderItemID     int64     `gorm:"column:order_item_id;not null" json:"order_item_id"`
	QuantityShipped int       `gorm:"column:quantity_shipped;not null" json:"quantity_shipped"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ShipmentItem) TableName() string { return "shipment_items" }
