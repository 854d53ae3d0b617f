package models

import "time"

// Customer is a storefront shopper account.
type Customer struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	Phone        *string    `gorm:"column:phone"`
	AvatarURL    *string    `gorm:"column:avatar_url"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }
