package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 割引コード表の読み取り。コアは書き込まない。
type DiscountRepository interface {
	ListActive(ctx context.Context) ([]model.DiscountRule, error)
}
