package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type DiscountGormRepository struct {
	db *gorm.DB
}

func NewDiscountGormRepository(db *gorm.DB) *DiscountGormRepository {
	return &DiscountGormRepository{db: db}
}

// 有効な割引コードを全件返す（件数は少ない前提）
func (r *DiscountGormRepository) ListActive(ctx context.Context) ([]model.DiscountRule, error) {
	var rules []model.DiscountRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code asc").
		Find(&rules).Error
	if err != nil {
		return []model.DiscountRule{}, err
	}
	return rules, nil
}
