package models

import (
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a customer purchase header.
type Order struct {
	ID         int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerID *int64            `gorm:"column:customer_id;index" json:"customer_id"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:pending" json:"status"`
	Total      decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null;default:0" json:"total"`
	Notes      *string           `gorm:"column:notes" json:"notes"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a line on an order; Price is the unit price at purchase.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID int64           `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (OrderItem) TableName() string { return "order_items" }
