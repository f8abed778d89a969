package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// 重複時はErrConflict
	Create(ctx context.Context, order model.Order) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, sessionID string, key string) (model.Order, bool, error)
}
