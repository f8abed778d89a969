package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// CartUpdateFunc は現在のカートから次の状態を作る。
// nilを返すとカートを削除する。競合時は再度呼ばれることがある。
type CartUpdateFunc func(current model.CartSnapshot, found bool) (*model.CartSnapshot, error)

// セッション単位のカート保存。
// 見つからない場合は found=false（エラーにしない）。
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (model.CartSnapshot, bool, error)
	Save(ctx context.Context, snapshot model.CartSnapshot) error
	Delete(ctx context.Context, sessionID string) error
	// Update は読み込み→fn→保存を楽観的に行う。
	// 途中で他から更新されたらfnからやり直し、上限を超えたらErrConflict。
	Update(ctx context.Context, sessionID string, fn CartUpdateFunc) error
}

// カート更新の再試行上限
const MaxCartUpdateAttempts = 50
