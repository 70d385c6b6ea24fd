package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/carb-calculator/internal/config"
)

const (
	defaultStateTTL = 24 * time.Hour
	redisOpTimeout  = 3 * time.Second
)

// RedisManager keeps dialog state in Redis so a restarted bot resumes
// half-finished dialogs. Entries expire after the TTL.
type RedisManager struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(ctx context.Context, cfg config.RedisConfig, namespace string, logger *slog.Logger) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisManager{
		client:    client,
		namespace: namespace,
		ttl:       defaultStateTTL,
		logger:    logger.With("component", "state"),
	}, nil
}

func (m *RedisManager) stateKey(userID int64) string {
	return fmt.Sprintf("%s:user:%d:state", m.namespace, userID)
}

func (m *RedisManager) tempKey(userID int64) string {
	return fmt.Sprintf("%s:user:%d:temp", m.namespace, userID)
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := opContext()
	defer cancel()
	if err := m.client.Set(ctx, m.stateKey(userID), state, m.ttl).Err(); err != nil {
		m.logger.Warn("failed to save user state", "user_id", userID, "error", err)
	}
}

// GetUserState gets the state for a user; errors read as None
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := opContext()
	defer cancel()
	val, err := m.client.Get(ctx, m.stateKey(userID)).Result()
	if err == redis.Nil {
		return None
	}
	if err != nil {
		m.logger.Warn("failed to read user state", "user_id", userID, "error", err)
		return None
	}
	return val
}

// ClearUserState clears the state for a user
func (m *RedisManager) ClearUserState(userID int64) {
	ctx, cancel := opContext()
	defer cancel()
	m.client.Del(ctx, m.stateKey(userID))
}

// SetTempData sets temporary data for a user
func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx, cancel := opContext()
	defer cancel()
	tk := m.tempKey(userID)
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tk, key, value)
	pipe.Expire(ctx, tk, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		m.logger.Warn("failed to save temp data", "user_id", userID, "key", key, "error", err)
	}
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx, cancel := opContext()
	defer cancel()
	val, err := m.client.HGet(ctx, m.tempKey(userID), key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := opContext()
	defer cancel()
	m.client.Del(ctx, m.tempKey(userID))
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}
