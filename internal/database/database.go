package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vladimiradmaev/carb-calculator/internal/config"
	"github.com/vladimiradmaev/carb-calculator/internal/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// KVEntry is one named JSON document.
type KVEntry struct {
	Key       string `gorm:"column:store_key;primaryKey;size:255"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// NewPostgresDB connects to PostgreSQL and applies migrations.
func NewPostgresDB(cfg config.DBConfig, logger *slog.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate(db, logger); err != nil {
		return nil, err
	}

	logger.Info("database connection established", "driver", "postgres", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// NewSQLiteDB opens (creating if needed) a local SQLite file and applies migrations.
func NewSQLiteDB(path string, logger *slog.Logger) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := migrate(db, logger); err != nil {
		return nil, err
	}

	logger.Info("database connection established", "driver", "sqlite", "path", path)
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

func migrate(db *gorm.DB, logger *slog.Logger) error {
	registry, err := migrations.Default(logger)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := registry.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
