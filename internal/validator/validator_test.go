package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidateAddItem(t *testing.T) {
	cmd, err := ValidateAddItem(AddItemRequest{ProductID: " data-wipe ", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, AddItemCommand{ProductID: "data-wipe", Quantity: 2}, cmd)

	tests := []struct {
		name  string
		req   AddItemRequest
		field string
	}{
		{"empty id", AddItemRequest{ProductID: "", Quantity: 1}, "productId"},
		{"bad id", AddItemRequest{ProductID: "DROP TABLE", Quantity: 1}, "productId"},
		{"zero qty", AddItemRequest{ProductID: "a", Quantity: 0}, "quantity"},
		{"negative qty", AddItemRequest{ProductID: "a", Quantity: -3}, "quantity"},
		{"too many", AddItemRequest{ProductID: "a", Quantity: 1000}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAddItem(tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, "invalid "+tt.field, err.Error())
		})
	}
}

func TestValidateUpdateQuantity(t *testing.T) {
	cmd, err := ValidateUpdateQuantity("laptop", UpdateQuantityRequest{Quantity: ptr[int64](0)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), cmd.Quantity)

	_, err = ValidateUpdateQuantity("laptop", UpdateQuantityRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ValidateUpdateQuantity("", UpdateQuantityRequest{Quantity: ptr[int64](1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateDiscountCode(t *testing.T) {
	code, err := ValidateDiscountCode("  nornex10 ")
	require.NoError(t, err)
	assert.Equal(t, "NORNEX10", code)

	for _, bad := range []string{"", "   ", "has space", "ÆØÅ"} {
		_, err := ValidateDiscountCode(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		CustomerName:  "Kari Nordmann",
		Email:         " Kari@Example.no ",
		Phone:         "+47 912 34 567",
		AddressLine:   "Storgata 1",
		PostalCode:    "0155",
		City:          "Oslo",
		DiscountCode:  "nornex10",
		ExpectedTotal: ptr("2812.50"),
	}
}

func TestValidateCheckout_OK(t *testing.T) {
	cmd, err := ValidateCheckout(validCheckout(), "key-1")
	require.NoError(t, err)

	assert.Equal(t, "kari@example.no", cmd.Customer.Email)
	assert.Equal(t, "NORNEX10", cmd.DiscountCode)
	assert.Equal(t, "key-1", cmd.IdempotencyKey)
	require.NotNil(t, cmd.ExpectedTotal)
	assert.True(t, cmd.ExpectedTotal.Equal(decimal.RequireFromString("2812.5")))
}

func TestValidateCheckout_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CheckoutRequest)
		key    string
		field  string
	}{
		{"missing key", func(r *CheckoutRequest) {}, "", "idempotency key"},
		{"missing name", func(r *CheckoutRequest) { r.CustomerName = " " }, "k", "customerName"},
		{"bad email", func(r *CheckoutRequest) { r.Email = "kari" }, "k", "email"},
		{"bad phone", func(r *CheckoutRequest) { r.Phone = "abc" }, "k", "phone"},
		{"missing address", func(r *CheckoutRequest) { r.AddressLine = "" }, "k", "addressLine"},
		{"bad postal code", func(r *CheckoutRequest) { r.PostalCode = "12345" }, "k", "postalCode"},
		{"missing city", func(r *CheckoutRequest) { r.City = "" }, "k", "city"},
		{"bad code", func(r *CheckoutRequest) { r.DiscountCode = "no way" }, "k", "code"},
		{"bad total", func(r *CheckoutRequest) { r.ExpectedTotal = ptr("lots") }, "k", "expectedTotal"},
		{"negative total", func(r *CheckoutRequest) { r.ExpectedTotal = ptr("-1") }, "k", "expectedTotal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckout()
			tt.mutate(&req)

			_, err := ValidateCheckout(req, tt.key)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, "invalid "+tt.field, err.Error())
		})
	}
}

func TestValidateCheckout_OptionalFields(t *testing.T) {
	req := validCheckout()
	req.Phone = ""
	req.DiscountCode = ""
	req.ExpectedTotal = nil

	cmd, err := ValidateCheckout(req, "k")
	require.NoError(t, err)
	assert.Empty(t, cmd.DiscountCode)
	assert.Nil(t, cmd.ExpectedTotal)
}
