package pricing

import (
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// ノルウェーの付加価値税（MVA）
	DefaultVATRate = decimal.RequireFromString("0.25")
)

// 画面・チェックアウトに渡す計算結果。保存はしない。
type Result struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableAmount  decimal.Decimal `json:"taxableAmount"`
	VAT            decimal.Decimal `json:"vat"`
	Total          decimal.Decimal `json:"total"`
}

// Engine は小計・割引・税・合計を計算する純粋関数の入れ物。
// 丸めは表示側で行う。
type Engine struct {
	vatRate decimal.Decimal
}

func NewEngine(vatRate decimal.Decimal) Engine {
	if vatRate.IsNegative() {
		vatRate = decimal.Zero
	}
	return Engine{vatRate: vatRate}
}

func (e Engine) VATRate() decimal.Decimal {
	return e.vatRate
}

// ComputeTotals は明細と割引コードから金額を出す。
// 表に無いコードは「割引なし」として扱う（エラーにしない）。
func (e Engine) ComputeTotals(items []model.LineItem, table DiscountTable, code string) Result {
	subtotal := Subtotal(items)

	discount := decimal.Zero
	if code != "" && table != nil {
		if rule, ok := table.Lookup(code); ok {
			discount = DiscountFor(rule, subtotal)
		}
	}

	taxable := subtotal.Sub(discount)
	vat := taxable.Mul(e.vatRate)

	return Result{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		VAT:            vat,
		Total:          taxable.Add(vat),
	}
}

func Subtotal(items []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return sum
}

// 割引額は0以上、小計以下に収める。
func DiscountFor(rule model.DiscountRule, subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || !rule.Value.IsPositive() {
		return decimal.Zero
	}

	var d decimal.Decimal
	switch rule.Kind {
	case model.DiscountPercentage:
		d = subtotal.Mul(rule.Value).Div(hundred)
	case model.DiscountFixedAmount:
		d = rule.Value
	default:
		return decimal.Zero
	}

	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}
