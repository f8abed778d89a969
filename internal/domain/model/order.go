package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// 注文（チェックアウト時点の金額を確定して保存）
type Order struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID      string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_session_key,priority:1" json:"-"`
	CustomerName   string          `gorm:"type:varchar(255);not null" json:"customerName"`
	Email          string          `gorm:"type:varchar(255);not null" json:"email"`
	Phone          string          `gorm:"type:varchar(30)" json:"phone"`
	Company        string          `gorm:"type:varchar(255)" json:"company"`
	AddressLine    string          `gorm:"type:varchar(255);not null" json:"addressLine"`
	PostalCode     string          `gorm:"type:varchar(20);not null" json:"postalCode"`
	City           string          `gorm:"type:varchar(100);not null" json:"city"`
	DiscountCode   string          `gorm:"type:varchar(64)" json:"discountCode,omitempty"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discountAmount"`
	TaxableAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"taxableAmount"`
	VAT            decimal.Decimal `gorm:"column:vat;type:numeric(12,2);not null" json:"vat"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_orders_session_key,priority:2" json:"-"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
