package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type BlogGormRepository struct {
	db *gorm.DB
}

func NewBlogGormRepository(db *gorm.DB) *BlogGormRepository {
	return &BlogGormRepository{db: db}
}

// 記事を全件（カテゴリ・タグ付き）返す。
// 公開判定はcontentパッケージで行うので、ここでは絞らない。
func (r *BlogGormRepository) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Order("published_at desc").
		Order("id asc").
		Find(&posts).Error
	if err != nil {
		return []model.BlogPost{}, err
	}
	return posts, nil
}

func (r *BlogGormRepository) FindBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	var p model.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.BlogPost{}, repo.ErrNotFound
	}
	if err != nil {
		return model.BlogPost{}, err
	}
	return p, nil
}

func (r *BlogGormRepository) ListCategories(ctx context.Context) ([]model.BlogCategory, error) {
	var cats []model.BlogCategory
	if err := r.db.WithContext(ctx).Order("name asc").Find(&cats).Error; err != nil {
		return []model.BlogCategory{}, err
	}
	return cats, nil
}
