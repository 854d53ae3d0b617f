package models

import "time"

// ProductCategory is a node in the self-referencing category tree. A nil
// ParentCategoryID marks a root.
type ProductCategory struct {
	ID               int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name             string           `gorm:"column:name;not null" json:"name"`
	Description      *string          `gorm:"column:description" json:"description"`
	ParentCategoryID *int64           `gorm:"column:parent_category_id;index" json:"parent_category_id"`
	HeroImage        *string          `gorm:"column:hero_image" json:"hero_image"`
	Parent           *ProductCategory `gorm:"foreignKey:ParentCategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProductCategory) TableName() string { return "product_categories" }
