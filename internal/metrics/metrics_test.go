package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCartMutation(t *testing.T) {
	m := New()

	m.CartMutation("add", nil)
	m.CartMutation("add", nil)
	m.CartMutation("add", errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartMutations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartMutations.WithLabelValues("add", "error")))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/cart/items", 201, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/cart/items", "201")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}

func TestOrderPlaced(t *testing.T) {
	m := New()
	m.OrderPlaced(2812.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersPlaced))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OrderValue))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartMutation("add", nil)
		m.OrderPlaced(1)
		m.ObserveHTTP("GET", "/cart", 200, time.Millisecond)
	})
}
