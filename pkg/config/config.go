package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "SHOPFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "SHOPFLOW_APP_ENV"
	EnvAppPort  = "SHOPFLOW_APP_PORT"
	EnvRedisURL = "SHOPFLOW_REDIS_URL"
	EnvDBDSN    = "SHOPFLOW_DB_DSN"
	EnvDBHost   = "SHOPFLOW_DB_HOST"
	EnvDBUser   = "SHOPFLOW_DB_USER"
	EnvDBName   = "SHOPFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// Config aggregates every runtime setting for the catalog service.
type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Draft        DraftConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

// Load parses the environment into a Config and normalizes the DB DSN.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPFLOW_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPFLOW_DB_DSN"`
	Driver string `envconfig:"SHOPFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPFLOW_DB_USER"`
	LegacyPassword string `envconfig:"SHOPFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPFLOW_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SHOPFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig signs and verifies the console access tokens.
type JWTConfig struct {
	Secret            string `envconfig:"SHOPFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPFLOW_JWT_ISSUER" default:"shopflow-console"`
	ExpirationMinutes int    `envconfig:"SHOPFLOW_JWT_EXPIRATION_MINUTES" default:"60"`
}

// DraftConfig controls variation editing sessions held in Redis.
type DraftConfig struct {
	SessionTTL time.Duration `envconfig:"SHOPFLOW_DRAFT_SESSION_TTL" default:"2h"`
}

// RateLimitConfig throttles the sale-time quote surface. A zero window or
// limit disables the limiter.
type RateLimitConfig struct {
	QuoteWindow  time.Duration `envconfig:"SHOPFLOW_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteIPLimit int64         `envconfig:"SHOPFLOW_RATE_LIMIT_QUOTE_IP_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPFLOW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPFLOW_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
