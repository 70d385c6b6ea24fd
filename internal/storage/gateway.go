// Package storage persists named JSON documents on a pluggable backend.
//
// Every value is stored whole: Save overwrites the previous text and Load
// decodes it back, substituting the caller's default when the key is
// missing, unreadable, or holds something that no longer decodes. Two
// processes sharing a backend are last-writer-wins.
package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
)

// Backend stores raw text under a key.
type Backend interface {
	// Get returns ok=false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Gateway adds namespacing and JSON encoding on top of a Backend.
type Gateway struct {
	backend   Backend
	namespace string
	logger    *slog.Logger
}

// NewGateway wraps backend. An empty namespace stores keys as-is.
func NewGateway(backend Backend, namespace string, logger *slog.Logger) *Gateway {
	return &Gateway{
		backend:   backend,
		namespace: namespace,
		logger:    logger.With("component", "storage"),
	}
}

// Close closes the underlying backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}

func (g *Gateway) key(name string) string {
	if g.namespace == "" {
		return name
	}
	return g.namespace + ":" + name
}

type validator interface {
	Valid() bool
}

// Load decodes the value stored under key, or returns def. Errors are
// logged and healed, never returned.
func Load[T any](ctx context.Context, g *Gateway, key string, def T) T {
	raw, ok, err := g.backend.Get(ctx, g.key(key))
	if err != nil {
		g.logger.WarnContext(ctx, "read failed, using default", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		g.logger.WarnContext(ctx, "discarding corrupt value", "key", key, "error", err)
		return def
	}
	if vv, ok := any(v).(validator); ok && !vv.Valid() {
		g.logger.WarnContext(ctx, "discarding invalid value", "key", key)
		return def
	}
	return v
}

// LoadList decodes a stored list and drops the elements that fail their
// own Valid check. A missing or corrupt list loads as empty.
func LoadList[E any](ctx context.Context, g *Gateway, key string) []E {
	items := Load(ctx, g, key, []E{})
	if items == nil {
		return []E{}
	}
	kept := items[:0]
	for _, item := range items {
		if v, ok := any(item).(validator); ok && !v.Valid() {
			continue
		}
		kept = append(kept, item)
	}
	if dropped := len(items) - len(kept); dropped > 0 {
		g.logger.WarnContext(ctx, "discarding invalid elements", "key", key, "dropped", dropped)
	}
	return kept
}

// Save encodes v and overwrites whatever is stored under key.
func Save[T any](ctx context.Context, g *Gateway, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.NewInternalError(err).WithContext("key", key)
	}
	if err := g.backend.Set(ctx, g.key(key), string(data)); err != nil {
		return apperrors.NewDatabaseError(err).WithContext("key", key)
	}
	g.logger.DebugContext(ctx, "value saved", "key", key, "bytes", len(data))
	return nil
}
