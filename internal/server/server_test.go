package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/pricing"
	"storefront/internal/handler"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	mw "storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testConfig() config.Config {
	return config.Config{
		SessionSecret: "test",
		CartTTL:       time.Hour,
		FEURL:         "http://localhost:3000",
		GoEnv:         config.EnvDev,
	}
}

// DBを使わないルートだけ確認する
func TestNew_HealthMetricsAndCORS(t *testing.T) {
	m := metrics.New()
	sessions := session.NewManager(infraRepo.NewCartMemoryRepository())
	engine := pricing.NewEngine(decimal.RequireFromString("0.25"))

	e := New(testConfig(), zerolog.Nop(), m, Handlers{
		Health:   handler.NewHealthHandler(nil),
		Product:  handler.NewProductHandler(usecase.NewProductUsecase(nil)),
		Cart:     handler.NewCartHandler(usecase.NewCartUsecase(sessions, nil, nil, engine, m)),
		Checkout: handler.NewCheckoutHandler(usecase.NewCheckoutUsecase(nil, nil, nil, nil, sessions, engine, nil, m)),
		Blog:     handler.NewBlogHandler(usecase.NewBlogUsecase(nil)),
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")

	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	// 商品の入力エラーはDBに触れる前に400
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 不正なorder idもDB前に400、セッションは発行される
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/xyz", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(mw.SessionHeaderName))
}
