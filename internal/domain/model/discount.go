package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	DiscountPercentage  DiscountKind = "PERCENTAGE"
	DiscountFixedAmount DiscountKind = "FIXED_AMOUNT"
)

func (k DiscountKind) Valid() bool {
	return k == DiscountPercentage || k == DiscountFixedAmount
}

// 割引コードのルール。
// Codeは大文字で保存する（照合は大文字小文字を区別しない）。
type DiscountRule struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	Code        string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	Kind        DiscountKind    `gorm:"type:varchar(20);not null" json:"kind"`
	Value       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	IsActive    bool            `gorm:"not null;default:true" json:"-"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"-"`
}
