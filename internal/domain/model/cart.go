package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// 追加時点の価格を必ず保存。
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}

// セッション単位のカートの保存形。
// 保存先（Redis / メモリ）はrepositoryが決める。
type CartSnapshot struct {
	SessionID    string     `json:"sessionId"`
	Items        []LineItem `json:"items"`
	DiscountCode string     `json:"discountCode,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
