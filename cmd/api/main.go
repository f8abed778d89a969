package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/pricing"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/messaging"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/seed"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(config.EnvDev, "info")
		bootLog.Fatal().Err(err).Msg("invalid config")
	}
	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.DSN(), log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	if cfg.Seed {
		data, err := seed.Default()
		if err != nil {
			return err
		}
		if err := seed.Apply(ctx, gormDB, data); err != nil {
			return err
		}
		log.Info().Int("products", len(data.Products)).Int("posts", len(data.Posts)).Msg("seed applied")
	}

	checks := map[string]handler.Pinger{
		"postgres": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}

	//カート保存先（Redis / メモリ）
	var carts repo.CartRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return err
		}
		carts = infraRepo.NewCartRedisRepository(rdb, cfg.CartTTL)
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info().Str("addr", cfg.RedisAddr).Msg("carts stored in redis")
	} else {
		carts = infraRepo.NewCartMemoryRepository()
		log.Warn().Msg("REDIS_ADDR not set, carts are kept in memory")
	}

	//注文イベント（RabbitMQ / ログ）
	var publisher usecase.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		conn, err := amqp.DialConfig(cfg.RabbitMQURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()

		rp, err := messaging.NewRabbitPublisher(conn)
		if err != nil {
			return err
		}
		defer func() { _ = rp.Close() }()
		publisher = rp
	} else {
		publisher = messaging.NewLogPublisher(log)
		log.Warn().Msg("RABBITMQ_URL not set, order events are only logged")
	}

	m := metrics.New()
	engine := pricing.NewEngine(cfg.VATRate)
	sessions := session.NewManager(carts)

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	discountRepo := infraRepo.NewDiscountGormRepository(gormDB)
	blogRepo := infraRepo.NewBlogGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(sessions, productRepo, discountRepo, engine, m)
	checkoutUC := usecase.NewCheckoutUsecase(txm, orderRepo, orderItemRepo, discountRepo, sessions, engine, publisher, m)
	blogUC := usecase.NewBlogUsecase(blogRepo)

	//Handler生成
	e := server.New(cfg, log, m, server.Handlers{
		Health:   handler.NewHealthHandler(checks),
		Product:  handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Blog:     handler.NewBlogHandler(blogUC),
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return server.Run(ctx, e, addr, log)
}
