package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Name           string
	Env            string
	Port           string
	SeedSampleData bool
}

type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
	LogLevel   string // silent, error, warn, info
}

type LogConfig struct {
	Level  string
	Format string // json or console
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

type IdempotencyConfig struct {
	TTL time.Duration
}

func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "invoicing-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("SEED_SAMPLE_DATA", true)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "invoices")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_SQLITE_PATH", "invoices.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Env:            v.GetString("APP_ENV"),
			Port:           v.GetString("APP_PORT"),
			SeedSampleData: v.GetBool("SEED_SAMPLE_DATA"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			Timezone:   v.GetString("DB_TIMEZONE"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
			LogLevel:   strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Idempotency: IdempotencyConfig{
			TTL: time.Duration(v.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
	}
}

// IsProduction reports whether the service runs with production settings
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
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
