package pricing

import (
	"strings"

	"storefront/internal/domain/model"
)

// 割引コード表の参照だけを約束する。
type DiscountTable interface {
	Lookup(code string) (model.DiscountRule, bool)
}

// 大文字化してから照合・保存する。
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Table はメモリ上の割引コード表。
type Table map[string]model.DiscountRule

// 有効なルールだけを正規化したコードで登録する。
// 値が0以下のルールと種類が不明なルールは無視する。
func NewTable(rules []model.DiscountRule) Table {
	t := make(Table, len(rules))
	for _, r := range rules {
		if !r.IsActive || !r.Kind.Valid() || !r.Value.IsPositive() {
			continue
		}
		if r.Kind == model.DiscountPercentage && r.Value.GreaterThan(hundred) {
			continue
		}
		code := CanonicalCode(r.Code)
		if code == "" {
			continue
		}
		r.Code = code
		t[code] = r
	}
	return t
}

func (t Table) Lookup(code string) (model.DiscountRule, bool) {
	r, ok := t[CanonicalCode(code)]
	return r, ok
}
