package models

import "time"

type SystemPreference struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"column:key;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"column:value;not null" json:"value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SystemPreference) TableName() string { return "system_preferences" }

// AuditLog rows are append-only.
type AuditLog struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AdminUserID *int64    `gorm:"column:admin_user_id;index" json:"admin_user_id"`
	Action      string    `gorm:"column:action;not null" json:"action"`
	Resource    string    `gorm:"column:resource;not null" json:"resource"`
	ResourceID  *string   `gorm:"column:resource_id" json:"resource_id"`
	IP          *string   `gorm:"column:ip" json:"ip"`
	StatusCode  int       `gorm:"column:status_code;not null" json:"status_code"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
