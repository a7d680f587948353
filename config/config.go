package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the download bot
type Config struct {
	Telegram TelegramConfig
	Resolver ResolverConfig
	Storage  StorageConfig
	Delivery DeliveryConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// ResolverConfig holds resolver chain configuration
type ResolverConfig struct {
	RequestTimeout time.Duration
	Cooldown       time.Duration
}

// StorageConfig holds scratch directory configuration
type StorageConfig struct {
	Dir           string
	MinAssetSize  int64
	FetchTimeout  time.Duration
	DeleteGrace   time.Duration
	SweepInterval time.Duration
	MaxAge        time.Duration
}

// DeliveryConfig holds delivery strategy chain configuration
type DeliveryConfig struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	RecoveryPause     time.Duration
	PostRecoveryPause time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Resolver *ResolverConfig
	Storage  *StorageConfig
	Delivery *DeliveryConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Resolver: &cfg.Resolver,
		Storage:  &cfg.Storage,
		Delivery: &cfg.Delivery,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Resolver: ResolverConfig{
			RequestTimeout: getDurationEnv("RESOLVER_REQUEST_TIMEOUT", 15*time.Second),
			Cooldown:       getDurationEnv("RESOLVER_COOLDOWN", 2*time.Second),
		},
		Storage: StorageConfig{
			Dir:           getEnv("DOWNLOAD_DIR", "./downloads"),
			MinAssetSize:  getInt64Env("MIN_ASSET_SIZE", 1024),
			FetchTimeout:  getDurationEnv("FETCH_TIMEOUT", 60*time.Second),
			DeleteGrace:   getDurationEnv("DELETE_GRACE", 15*time.Second),
			SweepInterval: getDurationEnv("SWEEP_INTERVAL", 30*time.Minute),
			MaxAge:        getDurationEnv("FILE_MAX_AGE", 30*time.Minute),
		},
		Delivery: DeliveryConfig{
			MaxAttempts:       getIntEnv("DELIVERY_MAX_ATTEMPTS", 2),
			InitialBackoff:    getDurationEnv("DELIVERY_INITIAL_BACKOFF", 2*time.Second),
			RecoveryPause:     getDurationEnv("RECOVERY_PAUSE", 3*time.Second),
			PostRecoveryPause: getDurationEnv("POST_RECOVERY_PAUSE", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "tikflow-bot"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Storage.Dir == "" {
		return fmt.Errorf("DOWNLOAD_DIR is required")
	}

	if c.Storage.MinAssetSize <= 0 {
		return fmt.Errorf("MIN_ASSET_SIZE must be positive")
	}

	if c.Delivery.MaxAttempts < 1 {
		return fmt.Errorf("DELIVERY_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDurationEnv gets a duration environment variable with default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getIntEnv gets an integer environment variable with default value
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getInt64Env gets an int64 environment variable with default value
func getInt64Env(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}
