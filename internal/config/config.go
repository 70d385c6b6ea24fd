package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/carb-calculator/internal/logger"
)

// Storage drivers understood by storage.Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

type Config struct {
	TelegramToken   string
	OwnerTelegramID int64
	GeminiAPIKey    string
	OpenAIAPIKey    string
	Storage         StorageConfig
	DB              DBConfig
	Redis           RedisConfig
	Logger          LoggerConfig
}

type StorageConfig struct {
	Driver    string
	Namespace string
	// Path is the sqlite file or the badger directory.
	Path string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".carbcalc"
	}
	return filepath.Join(home, ".carbcalc")
}

// DefaultStoragePath is the per-user location for file-backed drivers.
func DefaultStoragePath(driver string) string {
	if driver == DriverBadger {
		return filepath.Join(defaultDataDir(), "badger")
	}
	return filepath.Join(defaultDataDir(), "carbcalc.db")
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverSQLite))

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		Storage: StorageConfig{
			Driver:    driver,
			Namespace: getEnvOrDefault("STORAGE_NAMESPACE", "carbcalc"),
			Path:      getEnvOrDefault("STORAGE_PATH", DefaultStoragePath(driver)),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "carb_calculator"),
		},
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	var err error
	if cfg.OwnerTelegramID, err = parseInt64("OWNER_TELEGRAM_ID", 0); err != nil {
		return nil, err
	}
	redisDB, err := parseInt64("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.Redis.DB = int(redisDB)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseInt64(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

// Validate checks the storage and logger settings.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverBadger:
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required for driver %q", c.Storage.Driver)
		}
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logger.Format)
	}
	return nil
}

// ValidateBot checks the settings only the Telegram front end needs.
func (c *Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}
