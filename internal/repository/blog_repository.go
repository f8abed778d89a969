package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// ブログ記事の取得元。絞り込み・並び替えはcontentパッケージで行う。
type BlogRepository interface {
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (model.BlogPost, error)
	ListCategories(ctx context.Context) ([]model.BlogCategory, error)
}
