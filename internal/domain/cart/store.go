package cart

import (
	"sort"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

// カートに入れる時点の商品情報（価格はこの値を信じる）
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
}

// Store は1セッション分のカート。
// 数量0の明細は持たない。itemCountは常に数量の合計と一致させる。
// 並行アクセスの直列化は呼び出し側（session.Manager）の責任。
type Store struct {
	items        map[string]*model.LineItem
	discountCode string
	itemCount    int64
}

func New() *Store {
	return &Store{items: make(map[string]*model.LineItem)}
}

// 保存形から復元する。数量1未満の明細は捨てる。
func FromSnapshot(s model.CartSnapshot) *Store {
	st := New()
	for _, it := range s.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			continue
		}
		if cur, ok := st.items[it.ProductID]; ok {
			cur.Quantity += it.Quantity
		} else {
			item := it
			st.items[it.ProductID] = &item
		}
		st.itemCount += it.Quantity
	}
	st.discountCode = pricing.CanonicalCode(s.DiscountCode)
	return st
}

func (s *Store) Snapshot(sessionID string, now time.Time) model.CartSnapshot {
	return model.CartSnapshot{
		SessionID:    sessionID,
		Items:        s.Items(),
		DiscountCode: s.discountCode,
		UpdatedAt:    now,
	}
}

// 同一商品は数量加算（単価は最初に入れた時点のまま）。
func (s *Store) AddItem(p Product, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	id := normalizeID(p.ID)
	if id == "" {
		return ErrInvalidProduct
	}
	if p.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	if it, ok := s.items[id]; ok {
		it.Quantity += quantity
	} else {
		s.items[id] = &model.LineItem{
			ProductID: id,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  quantity,
		}
	}
	s.itemCount += quantity
	return nil
}

// 0以下は削除扱い。無いIDは何もしない。
func (s *Store) UpdateQuantity(id string, quantity int64) {
	id = normalizeID(id)
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}
	it, ok := s.items[id]
	if !ok {
		return
	}
	s.itemCount += quantity - it.Quantity
	it.Quantity = quantity
}

func (s *Store) RemoveItem(id string) {
	id = normalizeID(id)
	it, ok := s.items[id]
	if !ok {
		return
	}
	s.itemCount -= it.Quantity
	delete(s.items, id)
}

// 明細と割引コードをまとめて消す。
func (s *Store) Clear() {
	s.items = make(map[string]*model.LineItem)
	s.itemCount = 0
	s.discountCode = ""
}

func (s *Store) ItemCount() int64 {
	return s.itemCount
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Store) Item(id string) (model.LineItem, bool) {
	it, ok := s.items[normalizeID(id)]
	if !ok {
		return model.LineItem{}, false
	}
	return *it, true
}

// 商品ID順のコピーを返す。
func (s *Store) Items() []model.LineItem {
	out := make([]model.LineItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (s *Store) DiscountCode() string {
	return s.discountCode
}

// 適用した瞬間に表で確認する。失敗したら状態は変えない。
func (s *Store) ApplyDiscount(table pricing.DiscountTable, code string) bool {
	if table == nil {
		return false
	}
	rule, ok := table.Lookup(code)
	if !ok {
		return false
	}
	s.discountCode = pricing.CanonicalCode(rule.Code)
	return true
}

func (s *Store) RemoveDiscount() {
	s.discountCode = ""
}

func (s *Store) Totals(engine pricing.Engine, table pricing.DiscountTable) pricing.Result {
	return engine.ComputeTotals(s.Items(), table, s.discountCode)
}

// 商品IDは前後の空白を無視する（全操作で同じ扱い）
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
