package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, read once at startup.
type Config struct {
	Port              string
	ShopName          string
	Currency          string
	LowStockThreshold int
	AllowedOrigins    string
	RateLimit         string

	DB     DBConfig
	Log    LogConfig
	Notify NotifyConfig
	AI     AIConfig
}

type DBConfig struct {
	URL      string
	MaxConns int32
}

type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// NotifyConfig selects and tunes the invoice notification side-channel.
type NotifyConfig struct {
	Transport     string // "log" or "redis"
	Workers       int
	QueueSize     int
	RedisURL      string
	Channel       string
	DefaultRegion string // ISO 3166 region used to parse local phone numbers
}

type AIConfig struct {
	APIKey string
	Model  string
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "5000"),
		ShopName:       getEnv("SHOP_NAME", "Business Manager"),
		Currency:       getEnv("CURRENCY", "PKR"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		RateLimit:      getEnv("RATE_LIMIT", "300-M"),
		DB: DBConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Notify: NotifyConfig{
			Transport:     strings.ToLower(getEnv("NOTIFY_TRANSPORT", "log")),
			RedisURL:      os.Getenv("REDIS_URL"),
			Channel:       getEnv("NOTIFY_CHANNEL", "invoice-notifications"),
			DefaultRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "PK")),
		},
		AI: AIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o"),
		},
	}

	var err error
	if cfg.LowStockThreshold, err = getEnvInt("LOW_STOCK_THRESHOLD", 10); err != nil {
		return Config{}, err
	}
	if cfg.Notify.Workers, err = getEnvInt("NOTIFY_WORKERS", 2); err != nil {
		return Config{}, err
	}
	if cfg.Notify.QueueSize, err = getEnvInt("NOTIFY_QUEUE_SIZE", 64); err != nil {
		return Config{}, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 4)
	if err != nil {
		return Config{}, err
	}
	cfg.DB.MaxConns = int32(maxConns)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c Config) Validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative, got %d", c.LowStockThreshold)
	}
	if c.Notify.Workers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1, got %d", c.Notify.Workers)
	}
	if c.Notify.QueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1, got %d", c.Notify.QueueSize)
	}
	switch c.Notify.Transport {
	case "log":
	case "redis":
		if c.Notify.RedisURL == "" {
			return fmt.Errorf("NOTIFY_TRANSPORT=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_TRANSPORT %q (want log or redis)", c.Notify.Transport)
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.DB.MaxConns)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}
