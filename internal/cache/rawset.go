package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ripplehq/ripple/internal/logging"
	"github.com/ripplehq/ripple/internal/models"
	"github.com/ripplehq/ripple/internal/store"
)

// Options tunes the raw set cache.
type Options struct {
	// FeedTTL applies to the no-category (global) raw set.
	FeedTTL time.Duration
	// CategoryTTL applies to per-category raw sets.
	CategoryTTL time.Duration
	// FetchLimit caps how many rows one fill pulls from the store.
	FetchLimit int
}

// DefaultOptions match the service defaults: the global feed churns faster
// than any single category, so it expires sooner.
func DefaultOptions() Options {
	return Options{
		FeedTTL:     5 * time.Minute,
		CategoryTTL: 15 * time.Minute,
		FetchLimit:  1000,
	}
}

// RawSetGateway is the cache-aside layer over the post store. It owns the
// cached raw set's lifecycle: fill on miss, TTL expiry, and eager
// invalidation on post-count-changing writes.
//
// A nil Redis client is a valid degraded mode: every read becomes a store
// read and invalidation is a no-op.
type RawSetGateway struct {
	client goredis.UniversalClient
	store  store.PostStore
	logger logging.Logger
	opts   Options
}

// NewRawSetGateway creates a gateway over the given Redis client and store.
func NewRawSetGateway(client goredis.UniversalClient, posts store.PostStore, logger logging.Logger, opts Options) *RawSetGateway {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultOptions().FetchLimit
	}
	return &RawSetGateway{
		client: client,
		store:  posts,
		logger: logger,
		opts:   opts,
	}
}

// keyRawSet builds the cache key for a category scope. The empty category
// yields "posts::raw", the global feed key.
func keyRawSet(category string) string {
	return fmt.Sprintf("posts:%s:raw", category)
}

// GetRawSet returns the raw candidate set for the category scope and whether
// it came from the cache. On a miss, the store is queried (active posts,
// newest first, capped) plus an exact count, and the result is written back
// best-effort with the scope's TTL. Store errors are fatal; cache errors are
// logged and treated as a miss.
func (g *RawSetGateway) GetRawSet(ctx context.Context, category string) (models.RawSet, bool, error) {
	key := keyRawSet(category)

	if g.client != nil {
		payload, err := g.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var set models.RawSet
			if jerr := json.Unmarshal(payload, &set); jerr == nil {
				return set, true, nil
			}
			g.logger.WithField("key", key).Warn("Dropping corrupt cached raw set")
		case !errors.Is(err, goredis.Nil):
			g.logger.WithError(err).WithField("key", key).Warn("Cache read failed, falling back to store")
		}
	}

	rows, err := g.store.FindActivePosts(ctx, category, g.opts.FetchLimit)
	if err != nil {
		return models.RawSet{}, false, fmt.Errorf("fetch raw set: %w", err)
	}
	total, err := g.store.CountActive(ctx, category)
	if err != nil {
		return models.RawSet{}, false, fmt.Errorf("count raw set: %w", err)
	}

	set := models.RawSet{Rows: rows, TotalCount: total}
	g.populate(ctx, key, category, set)
	return set, false, nil
}

func (g *RawSetGateway) populate(ctx context.Context, key, category string, set models.RawSet) {
	if g.client == nil {
		return
	}
	payload, err := json.Marshal(set)
	if err != nil {
		g.logger.WithError(err).WithField("key", key).Warn("Failed to encode raw set for cache")
		return
	}
	ttl := g.opts.FeedTTL
	if category != "" {
		ttl = g.opts.CategoryTTL
	}
	if err := g.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		g.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// Invalidate drops the cached raw set for the category and for the global
// feed. Both always go together: any write to one category changes the
// global feed too. Deleting absent keys is a no-op, so invalidation is
// idempotent, and cache errors never propagate to the caller.
func (g *RawSetGateway) Invalidate(ctx context.Context, category string) {
	if g.client == nil {
		return
	}
	keys := []string{keyRawSet("")}
	if category != "" {
		keys = append(keys, keyRawSet(category))
	}
	if err := g.client.Del(ctx, keys...).Err(); err != nil {
		g.logger.WithError(err).WithField("category", category).Warn("Cache invalidation failed")
	}
}
