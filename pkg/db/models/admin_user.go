package models

import "time"

// AdminUser is a back-office operator account.
type AdminUser struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	RoleName     string     `gorm:"column:role_name;not null;default:admin"`
	AvatarURL    *string    `gorm:"column:avatar_url"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (AdminUser) TableName() string { return "admin_users" }
