package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Backend      BackendConfig
	Pricing      PricingConfig
	Checkout     CheckoutConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SUPERBOX_APP_ENV" required:"true"`
	Port         string `envconfig:"SUPERBOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUPERBOX_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SUPERBOX_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SUPERBOX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SUPERBOX_DB_DSN"`

	LegacyHost     string `envconfig:"SUPERBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"SUPERBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUPERBOX_DB_USER"`
	LegacyPassword string `envconfig:"SUPERBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUPERBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUPERBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPERBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUPERBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUPERBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPERBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUPERBOX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUPERBOX_REDIS_ADDR"`
	Password     string        `envconfig:"SUPERBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPERBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPERBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUPERBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUPERBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPERBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUPERBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes how identity tokens minted by the external provider are verified.
type JWTConfig struct {
	Secret string `envconfig:"SUPERBOX_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"SUPERBOX_JWT_ISSUER" required:"true"`
}

// FeatureFlagsConfig toggles local-development behaviour. UseSQLite treats DB.DSN as a sqlite file path.
type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SUPERBOX_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SUPERBOX_AUTO_MIGRATE" default:"false"`
}

// BackendConfig points at the storefront backend that persists customers and payments.
type BackendConfig struct {
	BaseURL             string        `envconfig:"SUPERBOX_BACKEND_BASE_URL" required:"true"`
	Timeout             time.Duration `envconfig:"SUPERBOX_BACKEND_TIMEOUT" default:"10s"`
	BreakerMaxRequests  uint32        `envconfig:"SUPERBOX_BACKEND_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval     time.Duration `envconfig:"SUPERBOX_BACKEND_BREAKER_INTERVAL" default:"60s"`
	BreakerOpenTimeout  time.Duration `envconfig:"SUPERBOX_BACKEND_BREAKER_OPEN_TIMEOUT" default:"30s"`
	BreakerFailureRatio float64       `envconfig:"SUPERBOX_BACKEND_BREAKER_FAILURE_RATIO" default:"0.6"`
	BreakerMinRequests  uint32        `envconfig:"SUPERBOX_BACKEND_BREAKER_MIN_REQUESTS" default:"5"`
}

// PricingConfig carries the storefront fee table. Amounts are decimal strings.
type PricingConfig struct {
	ShippingPerItem   string `envconfig:"SUPERBOX_PRICING_SHIPPING_PER_ITEM" default:"4.99"`
	CashOnDeliveryFee string `envconfig:"SUPERBOX_PRICING_COD_FEE" default:"10"`
	GatewayCurrency   string `envconfig:"SUPERBOX_PRICING_GATEWAY_CURRENCY" default:"BDT"`
}

// ShippingPerItemAmount parses the per-line shipping charge.
func (p PricingConfig) ShippingPerItemAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(p.ShippingPerItem))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// CashOnDeliveryFeeAmount parses the flat cash-on-delivery surcharge.
func (p PricingConfig) CashOnDeliveryFeeAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(p.CashOnDeliveryFee))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func (p PricingConfig) validate() error {
	checks := map[string]string{
		EnvPricingShipping: p.ShippingPerItem,
		EnvPricingCODFee:   p.CashOnDeliveryFee,
	}
	for env, raw := range checks {
		amount, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s must be a decimal amount: %w", env, err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("%s must be non-negative", env)
		}
	}
	if strings.TrimSpace(p.GatewayCurrency) == "" {
		return fmt.Errorf("%s is required", EnvPricingCurrency)
	}
	return nil
}

type CheckoutConfig struct {
	SessionTTL time.Duration `envconfig:"SUPERBOX_CHECKOUT_SESSION_TTL" default:"30m"`
	CartTTL    time.Duration `envconfig:"SUPERBOX_CART_TTL" default:"168h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SUPERBOX_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if db.DSN != "" {
		return nil
	}
	if sqlite {
		return fmt.Errorf("%s is required when sqlite is enabled", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
