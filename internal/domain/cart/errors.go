package cart

import "errors"

var (
	// 数量が1未満
	ErrInvalidQuantity = errors.New("invalid quantity")

	// 商品IDが空
	ErrInvalidProduct = errors.New("invalid product")

	// 単価がマイナス
	ErrInvalidPrice = errors.New("invalid price")

	// 割引コードが表に無い（適用時のみ）
	ErrDiscountNotFound = errors.New("discount not found")
)
