package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	mw "storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ルート登録に必要なハンドラ一式
type Handlers struct {
	Health   *handler.HealthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Blog     *handler.BlogHandler
}

// New はecho本体を組み立てる（共通middleware＋ルート）。
func New(cfg config.Config, log zerolog.Logger, m *metrics.Metrics, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(mw.RequestLogger(log))
	e.Use(mw.Metrics(m))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, mw.SessionHeaderName, "Idempotency-Key"},
		ExposeHeaders:    []string{mw.SessionHeaderName},
		AllowCredentials: true,
	}))

	RegisterRoutes(e, cfg, m, h)
	return e
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, m *metrics.Metrics, h Handlers) {
	session := mw.CartSession(mw.SessionConfig{
		Secret: []byte(cfg.SessionSecret),
		TTL:    cfg.CartTTL,
		Secure: cfg.IsProd(),
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	h.Health.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, session)
	h.Checkout.RegisterRoutes(e, session)
	h.Blog.RegisterRoutes(e)
}

// Run はctxがキャンセルされるまで待ち、その後graceful shutdownする。
func Run(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server started")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down http server")
	return e.Shutdown(shutdownCtx)
}
