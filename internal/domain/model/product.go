package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCondition string

const (
	ConditionNew         ProductCondition = "NEW"
	ConditionRefurbished ProductCondition = "REFURBISHED"
	ConditionService     ProductCondition = "SERVICE"
)

// カタログの商品（端末・ITサービス）
type Product struct {
	ID          string           `gorm:"type:varchar(64);primaryKey" json:"id"`
	Slug        string           `gorm:"type:varchar(128);not null;uniqueIndex" json:"slug"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Category    string           `gorm:"type:varchar(64);not null;index" json:"category"`
	Price       decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	Condition   ProductCondition `gorm:"type:varchar(20);not null;default:'NEW'" json:"condition"`
	IsActive    bool             `gorm:"not null;default:false" json:"isActive"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}
