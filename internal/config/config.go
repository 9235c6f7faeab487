// Package config loads service configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset.
// It is public and must never be used outside local development.
const DevJWTSecret = "dev_secret_must_be_replaced_with_long_random_value_please_change"

const (
	BlacklistMemory = "memory"
	BlacklistRedis  = "redis"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://sgsp-admin-frontend.up.railway.app",
}

type Config struct {
	Env         string `mapstructure:"APP_ENV"`
	Port        int    `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTTTL is the access token lifetime, e.g. "1h".
	JWTTTL string `mapstructure:"JWT_TTL"`
	// LogoutFallbackTTL bounds how long an unparseable token stays revoked.
	LogoutFallbackTTL string `mapstructure:"LOGOUT_FALLBACK_TTL"`
	BcryptCost        int    `mapstructure:"BCRYPT_COST"`

	BlacklistBackend string `mapstructure:"BLACKLIST_BACKEND"`
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int    `mapstructure:"REDIS_DB"`

	MinioEndpoint        string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey       string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey       string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL          bool   `mapstructure:"MINIO_USE_SSL"`
	ProductImageBucket   string `mapstructure:"PRODUCT_IMAGE_BUCKET"`
	InvoiceArchiveBucket string `mapstructure:"INVOICE_ARCHIVE_BUCKET"`
	InvoiceFileRoot      string `mapstructure:"INVOICE_FILE_ROOT"`

	CORSAllowedOrigins       string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	DashboardRefreshInterval string `mapstructure:"DASHBOARD_REFRESH_INTERVAL"`
	LowStockCheckInterval    string `mapstructure:"LOW_STOCK_CHECK_INTERVAL"`
}

// Load reads .env from the working directory if present, then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("JWT_SECRET", DevJWTSecret)
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("LOGOUT_FALLBACK_TTL", "5m")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("BLACKLIST_BACKEND", BlacklistMemory)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("PRODUCT_IMAGE_BUCKET", "product-images")
	v.SetDefault("INVOICE_ARCHIVE_BUCKET", "")
	v.SetDefault("INVOICE_FILE_ROOT", ".")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("DASHBOARD_REFRESH_INTERVAL", "5m")
	v.SetDefault("LOW_STOCK_CHECK_INTERVAL", "1h")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("config: DATABASE_URL must be set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("config: PORT must be between 1 and 65535")
	}
	if c.IsProduction() {
		if c.JWTSecret == DevJWTSecret {
			return errors.New("config: JWT_SECRET must be overridden when APP_ENV=production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("config: JWT_SECRET must be at least 32 bytes when APP_ENV=production")
		}
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	switch c.BlacklistBackend {
	case BlacklistMemory:
	case BlacklistRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR must be set when BLACKLIST_BACKEND=redis")
		}
	default:
		return errors.New("config: BLACKLIST_BACKEND must be memory or redis")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// UsesDevSecret reports whether tokens are signed with the public development secret.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

func (c *Config) TokenTTL() time.Duration {
	return parseDuration(c.JWTTTL, time.Hour)
}

func (c *Config) LogoutFallback() time.Duration {
	return parseDuration(c.LogoutFallbackTTL, 5*time.Minute)
}

func (c *Config) DashboardRefresh() time.Duration {
	return parseDuration(c.DashboardRefreshInterval, 5*time.Minute)
}

func (c *Config) LowStockCheck() time.Duration {
	return parseDuration(c.LowStockCheckInterval, time.Hour)
}

// AllowedOrigins merges the built-in admin frontends with CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	origins := append([]string{}, defaultCORSOrigins...)
	seen := make(map[string]bool, len(origins))
	for _, o := range origins {
		seen[o] = true
	}
	for _, p := range strings.Split(c.CORSAllowedOrigins, ",") {
		if s := strings.TrimSpace(p); s != "" && !seen[s] {
			seen[s] = true
			origins = append(origins, s)
		}
	}
	return origins
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
