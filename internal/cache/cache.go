// Package cache stores serialized query results for a bounded time.
//
// Two backends implement [Cache]: an in-process map ([MemoryCache]) and Redis ([RedisCache]).
// [New] picks Redis when an address is configured and reachable, and falls back to memory otherwise.
package cache

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// Cache is a TTL key/value store for encoded query results.
type Cache interface {
	// Get returns the value for key. ok is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Backend names the implementation for logs and the check report.
	Backend() string
	Close() error
}

// New builds the cache described by cfg.
//
// An empty RedisAddr selects the memory cache. A configured but unreachable Redis is logged and
// also falls back to memory so the dashboard still starts.
func New(cfg shared.CacheConfig, logger *log.Logger) Cache {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	if cfg.RedisAddr == "" {
		logger.Debug("using in-memory query cache")
		return NewMemoryCache()
	}

	c, err := NewRedisCache(cfg)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory query cache", "addr", cfg.RedisAddr, "error", err)
		return NewMemoryCache()
	}

	logger.Info("using redis query cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return c
}
