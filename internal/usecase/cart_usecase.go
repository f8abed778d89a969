package usecase

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/validator"
)

// CartUsecase は /cart の業務ロジック。
// カートはセッション単位で、更新はsession.Managerが直列化する。
type CartUsecase struct {
	sessions  *session.Manager
	products  repo.ProductRepository
	discounts repo.DiscountRepository
	engine    pricing.Engine
	metrics   *metrics.Metrics
}

// DI
func NewCartUsecase(
	sessions *session.Manager,
	products repo.ProductRepository,
	discounts repo.DiscountRepository,
	engine pricing.Engine,
	m *metrics.Metrics,
) *CartUsecase {
	return &CartUsecase{
		sessions:  sessions,
		products:  products,
		discounts: discounts,
		engine:    engine,
		metrics:   m,
	}
}

type CartResponse struct {
	Items        []model.LineItem `json:"items"`
	ItemCount    int64            `json:"itemCount"`
	DiscountCode string           `json:"discountCode,omitempty"`
	// 保存中のコードが今も有効か（無効なら割引0で計算される）
	DiscountApplied bool           `json:"discountApplied"`
	Totals          pricing.Result `json:"totals"`
}

func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (CartResponse, error) {
	s, err := u.sessions.Read(ctx, sessionID)
	if err != nil {
		return CartResponse{}, internalError(ctx, "get cart", err)
	}
	return u.respond(ctx, s)
}

// AddToCart は価格をカタログから引いて追加する（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, cmd validator.AddItemCommand) (CartResponse, error) {
	p, err := u.products.FindByID(ctx, cmd.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, internalError(ctx, "find product", err)
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}

	s, err := u.sessions.Mutate(ctx, sessionID, func(s *cart.Store) error {
		return s.AddItem(cart.Product{ID: p.ID, Name: p.Name, UnitPrice: p.Price}, cmd.Quantity)
	})
	u.metrics.CartMutation("add", err)
	if err != nil {
		return CartResponse{}, cartError(ctx, "add item", err)
	}
	return u.respond(ctx, s)
}

// UpdateCartItem は数量を上書きする（0以下は削除）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, sessionID string, cmd validator.UpdateQuantityCommand) (CartResponse, error) {
	s, err := u.sessions.Mutate(ctx, sessionID, func(s *cart.Store) error {
		s.UpdateQuantity(cmd.ProductID, cmd.Quantity)
		return nil
	})
	u.metrics.CartMutation("update", err)
	if err != nil {
		return CartResponse{}, cartError(ctx, "update item", err)
	}
	return u.respond(ctx, s)
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, sessionID string, productID string) (CartResponse, error) {
	s, err := u.sessions.Mutate(ctx, sessionID, func(s *cart.Store) error {
		s.RemoveItem(productID)
		return nil
	})
	u.metrics.CartMutation("remove", err)
	if err != nil {
		return CartResponse{}, cartError(ctx, "remove item", err)
	}
	return u.respond(ctx, s)
}

// ClearCart は明細と割引コードを両方消す。
func (u *CartUsecase) ClearCart(ctx context.Context, sessionID string) (CartResponse, error) {
	s, err := u.sessions.Mutate(ctx, sessionID, func(s *cart.Store) error {
		s.Clear()
		return nil
	})
	u.metrics.CartMutation("clear", err)
	if err != nil {
		return CartResponse{}, cartError(ctx, "clear cart", err)
	}
	return u.respond(ctx, s)
}

func (u *CartUsecase) ApplyDiscount(ctx context.Context, sessionID string, code string) (CartResponse, error) {
	table, err := u.discountTable(ctx)
	if err != nil {
		return CartResponse{}, internalError(ctx, "load discounts", err)
	}

	s, err := u.sessions.Mutate(ctx, sessionID, func(s *cart.Store) error {
		if !s.ApplyDiscount(table, code) {
			return cart.ErrDiscountNotFound
		}
		return nil
	})
	u.metrics.CartMutation("apply_discount", err)
	if err != nil {
		return CartResponse{}, cartError(ctx, "apply discount", err)
	}
	return u.build(s, table), nil
}

func (u *CartUsecase) RemoveDiscount(ctx context.Context, sessionID string) (CartResponse, error) {
	s, err := u.sessions.Mutate(ctx, sessionID, func(s *cart.Store) error {
		s.RemoveDiscount()
		return nil
	})
	u.metrics.CartMutation("remove_discount", err)
	if err != nil {
		return CartResponse{}, cartError(ctx, "remove discount", err)
	}
	return u.respond(ctx, s)
}

// 割引表は毎回DBの有効なルールから作る
func (u *CartUsecase) discountTable(ctx context.Context) (pricing.Table, error) {
	return loadDiscountTable(ctx, u.discounts)
}

func loadDiscountTable(ctx context.Context, discounts repo.DiscountRepository) (pricing.Table, error) {
	rules, err := discounts.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewTable(rules), nil
}

func (u *CartUsecase) respond(ctx context.Context, s *cart.Store) (CartResponse, error) {
	table, err := u.discountTable(ctx)
	if err != nil {
		return CartResponse{}, internalError(ctx, "load discounts", err)
	}
	return u.build(s, table), nil
}

func (u *CartUsecase) build(s *cart.Store, table pricing.DiscountTable) CartResponse {
	code := s.DiscountCode()
	applied := false
	if code != "" {
		_, applied = table.Lookup(code)
	}
	return CartResponse{
		Items:           s.Items(),
		ItemCount:       s.ItemCount(),
		DiscountCode:    code,
		DiscountApplied: applied,
		Totals:          s.Totals(u.engine, table),
	}
}

func cartError(ctx context.Context, op string, err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	case errors.Is(err, cart.ErrInvalidProduct), errors.Is(err, cart.ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, "invalid")
	case errors.Is(err, cart.ErrDiscountNotFound):
		return NewHTTPError(http.StatusNotFound, "discount not found")
	}
	return internalError(ctx, op, err)
}
