package handler

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// テスト用のメモリ実装（repositoryのport一式）
type memStore struct {
	mu         sync.Mutex
	products   map[string]model.Product
	discounts  []model.DiscountRule
	posts      []model.BlogPost
	categories []model.BlogCategory
	orders     map[string]model.Order
	orderItems map[string][]model.OrderItem
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]model.Product{},
		orders:     map[string]model.Order{},
		orderItems: map[string][]model.OrderItem{},
	}
}

type memProducts struct{ s *memStore }

func (r memProducts) ListPublic(_ context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Product{}
	for _, p := range r.s.products {
		if p.IsActive && (q.Category == "" || p.Category == q.Category) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r memProducts) FindByID(_ context.Context, id string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

type memDiscounts struct{ s *memStore }

func (r memDiscounts) ListActive(context.Context) ([]model.DiscountRule, error) {
	return r.s.discounts, nil
}

type memBlog struct{ s *memStore }

func (r memBlog) ListPosts(context.Context) ([]model.BlogPost, error) {
	return r.s.posts, nil
}

func (r memBlog) FindBySlug(_ context.Context, slug string) (model.BlogPost, error) {
	for _, p := range r.s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.BlogPost{}, repo.ErrNotFound
}

func (r memBlog) ListCategories(context.Context) ([]model.BlogCategory, error) {
	return r.s.categories, nil
}

type memOrders struct{ s *memStore }

func (r memOrders) FindByID(_ context.Context, id string) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) Create(_ context.Context, order model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.SessionID == order.SessionID && o.IdempotencyKey == order.IdempotencyKey {
			return repo.ErrConflict
		}
	}
	r.s.orders[order.ID] = order
	return nil
}

func (r memOrders) FindByIdempotencyKey(_ context.Context, sessionID, key string) (model.Order, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.SessionID == sessionID && o.IdempotencyKey == key {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

type memOrderItems struct{ s *memStore }

func (r memOrderItems) CreateBulk(_ context.Context, orderID string, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderItems[orderID] = append([]model.OrderItem(nil), items...)
	return nil
}

func (r memOrderItems) ListByOrderID(_ context.Context, orderID string) ([]model.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.OrderItem{}, r.s.orderItems[orderID]...), nil
}

type memTx struct{ s *memStore }

func (t memTx) Orders() repo.OrderRepository         { return memOrders(t) }
func (t memTx) OrderItems() repo.OrderItemRepository { return memOrderItems(t) }
func (t memTx) Products() repo.ProductRepository     { return memProducts(t) }

func (t memTx) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t)
}

var (
	_ repo.ProductRepository   = memProducts{}
	_ repo.DiscountRepository  = memDiscounts{}
	_ repo.BlogRepository      = memBlog{}
	_ repo.OrderRepository     = memOrders{}
	_ repo.OrderItemRepository = memOrderItems{}
	_ repo.TransactionManager  = memTx{}
)
