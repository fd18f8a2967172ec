// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/ktltc/cms-go/internal/model"
)

// Cache keys for the hot read paths.
const (
	KeyMenuTree     = "menu:tree"
	KeyNewsList     = "news:published"
	KeyVisitorCount = "stats:visitors"

	menuTreeTTL     = 10 * time.Minute
	visitorCountTTL = 30 * time.Second
)

// ManagerOptions configures the cache manager.
type ManagerOptions struct {
	// RedisURL selects the Redis backend when non-empty. On connection
	// failure the manager falls back to the in-memory backend.
	RedisURL string

	// Prefix namespaces Redis keys, e.g. "cms:".
	Prefix string

	// DefaultTTL applies to entries stored without an explicit TTL.
	DefaultTTL time.Duration

	// MaxItems bounds the in-memory backend (0 = unlimited).
	MaxItems int
}

// Manager owns the cache backend and the typed views over it.
type Manager struct {
	backend Cacher

	// MenuTree caches the assembled two-level navigation tree.
	MenuTree *TypedCache[[]model.NavNode]

	// NewsList caches the first page of the published news listing.
	NewsList *TypedCache[[]model.NewsPost]

	// VisitorCount caches the total visitor count with a short TTL so the
	// public counter does not hit the database on every page view.
	VisitorCount *TypedCache[int64]
}

// NewManager builds a Manager over Redis when configured, falling back to
// the in-memory backend when Redis is unreachable.
func NewManager(opts ManagerOptions) *Manager {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = 5 * time.Minute
	}

	var backend Cacher
	if opts.RedisURL != "" {
		rc, err := NewRedisCache(RedisOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: opts.DefaultTTL,
		})
		if err != nil {
			slog.Warn("redis cache unavailable, using memory cache", "error", err)
		} else {
			slog.Info("cache backend ready", "type", "redis")
			backend = rc
		}
	}
	if backend == nil {
		backend = NewMemoryCache(MemoryOptions{
			DefaultTTL:      opts.DefaultTTL,
			MaxItems:        opts.MaxItems,
			CleanupInterval: time.Minute,
		})
	}

	return newManagerWithBackend(backend)
}

func newManagerWithBackend(backend Cacher) *Manager {
	return &Manager{
		backend:      backend,
		MenuTree:     NewTypedCache[[]model.NavNode](backend, menuTreeTTL),
		NewsList:     NewTypedCache[[]model.NewsPost](backend, 0),
		VisitorCount: NewTypedCache[int64](backend, visitorCountTTL),
	}
}

// InvalidateMenu drops the cached navigation tree. Call after any navbar write.
func (m *Manager) InvalidateMenu(ctx context.Context) {
	_ = m.MenuTree.Delete(ctx, KeyMenuTree)
}

// InvalidateNews drops all cached news listings. Call after any news write.
func (m *Manager) InvalidateNews(ctx context.Context) {
	_ = m.backend.Delete(ctx, KeyNewsList)
}

// InvalidateVisitorCount drops the cached counter, forcing the next read to
// see freshly flushed increments.
func (m *Manager) InvalidateVisitorCount(ctx context.Context) {
	_ = m.VisitorCount.Delete(ctx, KeyVisitorCount)
}

// ClearAll empties the backend and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) {
	_ = m.backend.Clear(ctx)
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	slog.Info("cache cleared", "category", model.EventCategoryCache)
}

// Stats returns backend statistics, or the zero value for backends that do
// not track them.
func (m *Manager) Stats() Stats {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
