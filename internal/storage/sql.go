package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/vladimiradmaev/carb-calculator/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLBackend stores values in the kv_entries table of a gorm database.
type SQLBackend struct {
	db *gorm.DB
}

// NewSQLBackend wraps an already migrated database.
func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var entries []database.KVEntry
	if err := b.db.WithContext(ctx).
		Where("store_key = ?", key).
		Limit(1).
		Find(&entries).Error; err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	if len(entries) == 0 {
		return "", false, nil
	}
	return entries[0].Value, true, nil
}

func (b *SQLBackend) Set(ctx context.Context, key, value string) error {
	entry := database.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
