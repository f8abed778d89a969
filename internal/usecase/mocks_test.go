package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// ProductRepository モック
// =====================

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

var _ repo.ProductRepository = (*MockProductRepo)(nil)

// =====================
// DiscountRepository モック
// =====================

type MockDiscountRepo struct {
	mock.Mock
}

func (m *MockDiscountRepo) ListActive(ctx context.Context) ([]model.DiscountRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]model.DiscountRule)
	return rules, args.Error(1)
}

var _ repo.DiscountRepository = (*MockDiscountRepo)(nil)

// =====================
// OrderRepository / OrderItemRepository モック
// =====================

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *MockOrderRepo) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) FindByIdempotencyKey(ctx context.Context, sessionID string, key string) (model.Order, bool, error) {
	args := m.Called(ctx, sessionID, key)
	return args.Get(0).(model.Order), args.Bool(1), args.Error(2)
}

var _ repo.OrderRepository = (*MockOrderRepo)(nil)

type MockOrderItemRepo struct {
	mock.Mock
}

func (m *MockOrderItemRepo) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockOrderItemRepo) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

var _ repo.OrderItemRepository = (*MockOrderItemRepo)(nil)

// =====================
// BlogRepository モック
// =====================

type MockBlogRepo struct {
	mock.Mock
}

func (m *MockBlogRepo) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]model.BlogPost)
	return posts, args.Error(1)
}

func (m *MockBlogRepo) FindBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(model.BlogPost), args.Error(1)
}

func (m *MockBlogRepo) ListCategories(ctx context.Context) ([]model.BlogCategory, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]model.BlogCategory)
	return cats, args.Error(1)
}

var _ repo.BlogRepository = (*MockBlogRepo)(nil)

// =====================
// Publisher モック
// =====================

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderSubmitted(ctx context.Context, order model.Order, items []model.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

var _ OrderEventPublisher = (*MockPublisher)(nil)

// =====================
// TransactionManager（モックをそのまま渡す）
// =====================

type fakeTxRepos struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
}

func (r fakeTxRepos) Orders() repo.OrderRepository         { return r.orders }
func (r fakeTxRepos) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r fakeTxRepos) Products() repo.ProductRepository     { return r.products }

type fakeTxManager struct {
	repos fakeTxRepos
}

func (tm fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(tm.repos)
}

var _ repo.TransactionManager = fakeTxManager{}
