package config

import (
	"time"

	"github.com/sangkips/fnb-pos/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Webhook   WebhookConfig
	Loyalty   LoyaltyConfig
	Store     StoreConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	Debug       bool
	LogLevel    string
	SeedCatalog bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// WebhookConfig holds the bank notification settings. An empty Secret
// disables signature verification.
type WebhookConfig struct {
	Secret        string
	LookbackLimit int
	MaxBodyBytes  int64
}

type LoyaltyConfig struct {
	PointValue      int64
	EarnRateDivisor int64
}

// StoreConfig is printed on every receipt.
type StoreConfig struct {
	Name          string
	Address       string
	Phone         string
	ReceiptPrefix string
	Timezone      string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Log.WithError(err).Warn(".env file not found, using environment variables")
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Env:         viper.GetString("APP_ENV"),
			Port:        viper.GetString("APP_PORT"),
			Debug:       viper.GetBool("APP_DEBUG"),
			LogLevel:    viper.GetString("LOG_LEVEL"),
			SeedCatalog: viper.GetBool("SEED_CATALOG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Webhook: WebhookConfig{
			Secret:        viper.GetString("WEBHOOK_SECRET"),
			LookbackLimit: viper.GetInt("WEBHOOK_LOOKBACK_LIMIT"),
			MaxBodyBytes:  viper.GetInt64("WEBHOOK_MAX_BODY_BYTES"),
		},
		Loyalty: LoyaltyConfig{
			PointValue:      viper.GetInt64("LOYALTY_POINT_VALUE"),
			EarnRateDivisor: viper.GetInt64("LOYALTY_EARN_DIVISOR"),
		},
		Store: StoreConfig{
			Name:          viper.GetString("STORE_NAME"),
			Address:       viper.GetString("STORE_ADDRESS"),
			Phone:         viper.GetString("STORE_PHONE"),
			ReceiptPrefix: viper.GetString("RECEIPT_PREFIX"),
			Timezone:      viper.GetString("BUSINESS_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "fnb-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SEED_CATALOG", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "fnb_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Ho_Chi_Minh")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("WEBHOOK_SECRET", "")
	viper.SetDefault("WEBHOOK_LOOKBACK_LIMIT", 50)
	viper.SetDefault("WEBHOOK_MAX_BODY_BYTES", 1<<20)
	viper.SetDefault("LOYALTY_POINT_VALUE", 1000)
	viper.SetDefault("LOYALTY_EARN_DIVISOR", 10000)
	viper.SetDefault("STORE_NAME", "")
	viper.SetDefault("STORE_ADDRESS", "")
	viper.SetDefault("STORE_PHONE", "")
	viper.SetDefault("RECEIPT_PREFIX", "PT")
	viper.SetDefault("BUSINESS_TIMEZONE", "Asia/Ho_Chi_Minh")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location resolves the business timezone used for receipt day boundaries.
// Falls back to UTC+7 when the tz database is unavailable.
func (c *StoreConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*60*60)
}
