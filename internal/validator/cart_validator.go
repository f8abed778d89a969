package validator

import (
	"regexp"
	"strings"

	"storefront/internal/domain/pricing"
)

const (
	maxQuantity     = 999
	maxCodeLength   = 64
	maxProductIDLen = 64
)

var (
	productIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	codePattern      = regexp.MustCompile(`^[A-Z0-9_-]+$`)
)

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type AddItemCommand struct {
	ProductID string
	Quantity  int64
}

type UpdateQuantityRequest struct {
	Quantity *int64 `json:"quantity"`
}

type UpdateQuantityCommand struct {
	ProductID string
	Quantity  int64
}

type ApplyDiscountRequest struct {
	Code string `json:"code"`
}

func ValidateProductID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxProductIDLen || !productIDPattern.MatchString(id) {
		return "", invalid("productId")
	}
	return id, nil
}

// カート追加（数量は1以上）
func ValidateAddItem(req AddItemRequest) (AddItemCommand, error) {
	id, err := ValidateProductID(req.ProductID)
	if err != nil {
		return AddItemCommand{}, err
	}
	if req.Quantity < 1 || req.Quantity > maxQuantity {
		return AddItemCommand{}, invalid("quantity")
	}
	return AddItemCommand{ProductID: id, Quantity: req.Quantity}, nil
}

// 数量変更（0以下は削除扱いなので許可）
func ValidateUpdateQuantity(productID string, req UpdateQuantityRequest) (UpdateQuantityCommand, error) {
	id, err := ValidateProductID(productID)
	if err != nil {
		return UpdateQuantityCommand{}, err
	}
	if req.Quantity == nil || *req.Quantity > maxQuantity {
		return UpdateQuantityCommand{}, invalid("quantity")
	}
	return UpdateQuantityCommand{ProductID: id, Quantity: *req.Quantity}, nil
}

// 割引コードを正規化して返す
func ValidateDiscountCode(code string) (string, error) {
	c := pricing.CanonicalCode(code)
	if c == "" || len(c) > maxCodeLength || !codePattern.MatchString(c) {
		return "", invalid("code")
	}
	return c, nil
}
