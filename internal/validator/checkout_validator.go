package validator

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const maxIdempotencyKeyLen = 255

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodePattern = regexp.MustCompile(`^[0-9]{4}$`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9 ]{8,15}$`)
)

type CheckoutRequest struct {
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	AddressLine  string `json:"addressLine"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
	// カート画面で確認した割引コード（空なら割引なし）
	DiscountCode string `json:"discountCode"`
	// 画面に表示していた合計（任意）
	ExpectedTotal *string `json:"expectedTotal"`
}

type Customer struct {
	Name        string
	Email       string
	Phone       string
	Company     string
	AddressLine string
	PostalCode  string
	City        string
}

type CheckoutCommand struct {
	Customer       Customer
	DiscountCode   string
	ExpectedTotal  *decimal.Decimal
	IdempotencyKey string
}

func ValidateCheckout(req CheckoutRequest, idempotencyKey string) (CheckoutCommand, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" || len(key) > maxIdempotencyKeyLen {
		return CheckoutCommand{}, invalid("idempotency key")
	}

	c := Customer{
		Name:        strings.TrimSpace(req.CustomerName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		Company:     strings.TrimSpace(req.Company),
		AddressLine: strings.TrimSpace(req.AddressLine),
		PostalCode:  strings.TrimSpace(req.PostalCode),
		City:        strings.TrimSpace(req.City),
	}

	// 必須チェック
	if c.Name == "" || len(c.Name) > 255 {
		return CheckoutCommand{}, invalid("customerName")
	}
	if !emailPattern.MatchString(c.Email) || len(c.Email) > 255 {
		return CheckoutCommand{}, invalid("email")
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return CheckoutCommand{}, invalid("phone")
	}
	if len(c.Company) > 255 {
		return CheckoutCommand{}, invalid("company")
	}
	if c.AddressLine == "" || len(c.AddressLine) > 255 {
		return CheckoutCommand{}, invalid("addressLine")
	}
	// 郵便番号は4桁
	if !postalCodePattern.MatchString(c.PostalCode) {
		return CheckoutCommand{}, invalid("postalCode")
	}
	if c.City == "" || len(c.City) > 100 {
		return CheckoutCommand{}, invalid("city")
	}

	cmd := CheckoutCommand{Customer: c, IdempotencyKey: key}

	if strings.TrimSpace(req.DiscountCode) != "" {
		code, err := ValidateDiscountCode(req.DiscountCode)
		if err != nil {
			return CheckoutCommand{}, err
		}
		cmd.DiscountCode = code
	}

	if req.ExpectedTotal != nil {
		total, err := decimal.NewFromString(strings.TrimSpace(*req.ExpectedTotal))
		if err != nil || total.IsNegative() {
			return CheckoutCommand{}, invalid("expectedTotal")
		}
		cmd.ExpectedTotal = &total
	}

	return cmd, nil
}
