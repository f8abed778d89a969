package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/validator"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	supportHour = model.Product{ID: "it-support-hour", Name: "IT-support", Price: d("1000"), IsActive: true}
	dataWipe    = model.Product{ID: "data-wipe", Name: "Datasletting", Price: d("500"), IsActive: true}
	retired     = model.Product{ID: "old-laptop", Name: "Gammel laptop", Price: d("100"), IsActive: false}
	usbCable    = model.Product{ID: "usb-c-cable", Name: "USB-C-kabel", Price: d("99.90"), IsActive: true}

	activeRules = []model.DiscountRule{
		{Code: "NORNEX10", Kind: model.DiscountPercentage, Value: d("10"), IsActive: true},
		{Code: "VELKOMMEN500", Kind: model.DiscountFixedAmount, Value: d("500"), IsActive: true},
	}
)

type cartFixture struct {
	uc        *CartUsecase
	products  *MockProductRepo
	discounts *MockDiscountRepo
	sessions  *session.Manager
	carts     *infraRepo.CartMemoryRepository
	metrics   *metrics.Metrics
}

func newCartFixture() cartFixture {
	products := new(MockProductRepo)
	products.On("FindByID", mock.Anything, supportHour.ID).Return(supportHour, nil).Maybe()
	products.On("FindByID", mock.Anything, dataWipe.ID).Return(dataWipe, nil).Maybe()
	products.On("FindByID", mock.Anything, retired.ID).Return(retired, nil).Maybe()
	products.On("FindByID", mock.Anything, usbCable.ID).Return(usbCable, nil).Maybe()
	products.On("FindByID", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound).Maybe()

	discounts := new(MockDiscountRepo)
	discounts.On("ListActive", mock.Anything).Return(activeRules, nil).Maybe()

	carts := infraRepo.NewCartMemoryRepository()
	sessions := session.NewManager(carts)
	m := metrics.New()

	return cartFixture{
		uc:        NewCartUsecase(sessions, products, discounts, pricing.NewEngine(d("0.25")), m),
		products:  products,
		discounts: discounts,
		sessions:  sessions,
		carts:     carts,
		metrics:   m,
	}
}

func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	assert.Equal(t, msg, he.Message)
}

func TestCartUsecase_AddAndTotals(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: supportHour.ID, Quantity: 2})
	require.NoError(t, err)
	out, err := f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: dataWipe.ID, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(3), out.ItemCount)
	require.Len(t, out.Items, 2)
	assert.Equal(t, dataWipe.ID, out.Items[0].ProductID)
	assert.True(t, out.Totals.Subtotal.Equal(d("2500")))
	assert.True(t, out.Totals.Total.Equal(d("3125")))

	out, err = f.uc.ApplyDiscount(ctx, "s1", "nornex10")
	require.NoError(t, err)
	assert.Equal(t, "NORNEX10", out.DiscountCode)
	assert.True(t, out.DiscountApplied)
	assert.True(t, out.Totals.DiscountAmount.Equal(d("250")))
	assert.True(t, out.Totals.VAT.Equal(d("562.5")))
	assert.True(t, out.Totals.Total.Equal(d("2812.5")))

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.CartMutations.WithLabelValues("add", "ok")))
}

func TestCartUsecase_AddErrors(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: "missing", Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, "product not found")

	_, err = f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: retired.ID, Quantity: 1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid")

	_, err = f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: supportHour.ID, Quantity: 0})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid quantity")

	out, err := f.uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.Totals.Total.IsZero())
}

func TestCartUsecase_AddRepoFailureIs500(t *testing.T) {
	products := new(MockProductRepo)
	products.On("FindByID", mock.Anything, "x").Return(model.Product{}, errors.New("db down"))
	uc := NewCartUsecase(session.NewManager(infraRepo.NewCartMemoryRepository()), products, new(MockDiscountRepo), pricing.NewEngine(d("0.25")), nil)

	_, err := uc.AddToCart(context.Background(), "s1", validator.AddItemCommand{ProductID: "x", Quantity: 1})
	assertHTTPError(t, err, http.StatusInternalServerError, "internal error")
}

func TestCartUsecase_UpdateDeleteClear(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: supportHour.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: dataWipe.ID, Quantity: 1})
	require.NoError(t, err)

	out, err := f.uc.UpdateCartItem(ctx, "s1", validator.UpdateQuantityCommand{ProductID: supportHour.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(6), out.ItemCount)

	// 0は削除
	out, err = f.uc.UpdateCartItem(ctx, "s1", validator.UpdateQuantityCommand{ProductID: supportHour.ID, Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ItemCount)

	// 存在しない商品の削除はエラーにしない
	out, err = f.uc.DeleteCartItem(ctx, "s1", "nope")
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ItemCount)

	_, err = f.uc.ApplyDiscount(ctx, "s1", "VELKOMMEN500")
	require.NoError(t, err)

	out, err = f.uc.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, out.ItemCount)
	assert.Empty(t, out.DiscountCode)
}

func TestCartUsecase_Discounts(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: dataWipe.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.ApplyDiscount(ctx, "s1", "BOGUS")
	assertHTTPError(t, err, http.StatusNotFound, "discount not found")

	// 固定額は小計で頭打ち
	out, err := f.uc.ApplyDiscount(ctx, "s1", "velkommen500")
	require.NoError(t, err)
	assert.True(t, out.Totals.DiscountAmount.Equal(d("500")))
	assert.True(t, out.Totals.Total.IsZero())

	out, err = f.uc.RemoveDiscount(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, out.DiscountCode)
	assert.True(t, out.Totals.Total.Equal(d("625")))
}

func TestCartUsecase_DeactivatedCodeIsIgnoredInTotals(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.uc.AddToCart(ctx, "s1", validator.AddItemCommand{ProductID: supportHour.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.uc.ApplyDiscount(ctx, "s1", "NORNEX10")
	require.NoError(t, err)

	// 途中で無効化された
	discounts := new(MockDiscountRepo)
	discounts.On("ListActive", mock.Anything).Return([]model.DiscountRule{}, nil)
	uc := NewCartUsecase(f.sessions, f.products, discounts, pricing.NewEngine(d("0.25")), nil)

	out, err := uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "NORNEX10", out.DiscountCode)
	assert.False(t, out.DiscountApplied)
	assert.True(t, out.Totals.DiscountAmount.IsZero())
	assert.True(t, out.Totals.Total.Equal(d("1250")))
}

func TestCartUsecase_SessionsAreIsolated(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.uc.AddToCart(ctx, "a", validator.AddItemCommand{ProductID: supportHour.ID, Quantity: 1})
	require.NoError(t, err)

	out, err := f.uc.GetCart(ctx, "b")
	require.NoError(t, err)
	assert.Zero(t, out.ItemCount)
}
