package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Mode        string
	Environment string
	DemoMode    bool

	// DefaultOwnerID is the workspace owner notifications fall back to when the
	// acting context carries no tenant of its own.
	DefaultOwnerID int64

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Email     EmailConfig
	Telegram  TelegramConfig
	Webhook   WebhookConfig
	RateLimit RateLimitConfig
}

// EmailConfig configures the SMTP transport.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// TelegramConfig configures the bot API endpoint.
type TelegramConfig struct {
	APIBase string
}

// WebhookConfig bounds outbound webhook and Slack deliveries.
type WebhookConfig struct {
	TimeoutSeconds int
}

// RateLimitConfig throttles outbound email per workspace.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EmailRate     float64
	EmailBurst    int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	mode := normalizeMode(getenv("APP_MODE", ModeStandalone))
	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:        getenv("APP_SERVICE", "taskora"),
		AppVersion:     getenv("APP_VERSION", "0.1.0"),
		Mode:           mode,
		Environment:    environment,
		DemoMode:       getenvBool("DEMO_MODE", false),
		DefaultOwnerID: getenvInt64("DEFAULT_OWNER", 0),
		OTLPEndpoint:   getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:         getenv("DATABASE_TYPE", "postgres"),
		DBHost:         getenv("DATABASE_HOST", "localhost"),
		DBPort:         getenv("DATABASE_PORT", "5432"),
		DBName:         getenv("DATABASE_NAME", "postgres"),
		DBUser:         getenv("DATABASE_USER", "postgres"),
		DBPassword:     getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:      getenv("DATABASE_SSLMODE", "disable"),
		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", "localhost"),
			SMTPPort:     int(getenvInt64("SMTP_PORT", 587)),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@taskora.app"),
		},
		Telegram: TelegramConfig{
			APIBase: getenv("TELEGRAM_API_BASE", "https://api.telegram.org"),
		},
		Webhook: WebhookConfig{
			TimeoutSeconds: int(getenvInt64("WEBHOOK_TIMEOUT_SECONDS", 5)),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     getenv("RATE_LIMIT_REDIS_ADDR", ""),
			RedisPassword: getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       int(getenvInt64("RATE_LIMIT_REDIS_DB", 0)),
			EmailRate:     getenvFloat("RATE_LIMIT_EMAIL_RATE", 10),
			EmailBurst:    int(getenvInt64("RATE_LIMIT_EMAIL_BURST", 20)),
		},
	}

	return cfg
}

const (
	ModeSaaS       = "saas"
	ModeStandalone = "standalone"
)

// IsSaaS reports whether plan entitlement enforcement applies.
func (c Config) IsSaaS() bool {
	return c.Mode == ModeSaaS
}

func normalizeMode(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case ModeSaaS, "cloud", "multi-tenant":
		return ModeSaaS
	case ModeStandalone, "oss":
		return ModeStandalone
	default:
		return ModeStandalone
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
