package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	devSessionSecret = "dev_secret_change_me"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // 指定があればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // disable / require

	RedisAddr     string // 空ならメモリ上のカート
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration // カートの保持期間

	RabbitMQURL string // 空ならイベントはログ出力のみ

	SessionSecret string // カートセッショントークンの署名

	VATRate decimal.Decimal // 0.25

	GoEnv    string // dev/prod
	FEURL    string // フロントURL（CORS）
	Seed     bool   // 起動時に初期データを投入する
	LogLevel string
}

func (c Config) IsProd() bool {
	return c.GoEnv == EnvProd
}

// DSNはgorm（pgx）に渡す接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + c.PostgresSSLMode,
	}
	return u.String()
}

// 起動時に.envがあれば読む（無ければ環境変数のみ）
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Loadは環境変数
func Load() (Config, error) {
	var errs []error

	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	errs = append(errs, err)
	redisDB, err := atoiOr("REDIS_DB", 0)
	errs = append(errs, err)
	cartTTL, err := durationOr("CART_TTL", 720*time.Hour)
	errs = append(errs, err)
	seed, err := boolOr("SEED", true)
	errs = append(errs, err)

	vat, err := decimal.NewFromString(getOr("VAT_RATE", "0.25"))
	if err != nil {
		errs = append(errs, fmt.Errorf("VAT_RATE must be decimal: %w", err))
	}

	cfg := Config{
		Port: getOr("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getOr("POSTGRES_USER", "postgres"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getOr("POSTGRES_DB", "storefront"),
		PostgresHost:     getOr("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getOr("POSTGRES_SSLMODE", "disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CartTTL:       cartTTL,

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		VATRate: vat,

		GoEnv:    getOr("GO_ENV", EnvDev),
		FEURL:    getOr("FE_URL", "http://localhost:3000"),
		Seed:     seed,
		LogLevel: strings.ToLower(getOr("LOG_LEVEL", "info")),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	//値チェック
	if cfg.GoEnv != EnvDev && cfg.GoEnv != EnvProd {
		return Config{}, fmt.Errorf("GO_ENV must be %s or %s", EnvDev, EnvProd)
	}
	if cfg.VATRate.IsNegative() || cfg.VATRate.GreaterThan(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("VAT_RATE must be between 0 and 1")
	}
	if cfg.CartTTL <= 0 {
		return Config{}, fmt.Errorf("CART_TTL must be positive")
	}
	if cfg.SessionSecret == "" {
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("SESSION_SECRET is required")
		}
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

func getOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
