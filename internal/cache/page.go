// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPageTTL is how long a rendered profile stays cached when the
// caller does not pick a TTL.
const DefaultPageTTL = 5 * time.Minute

const (
	pageKeyPrefix = "profile:"
	scanBatch     = 100
)

// PageCache stores the finished HTML of contractor profile pages, keyed
// by slug. Every method on a nil *PageCache is a no-op that misses, so
// handlers can run without Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache wraps client. A zero ttl means DefaultPageTTL.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// ProfileKey returns the Valkey key holding the page for slug.
func ProfileKey(slug string) string {
	return pageKeyPrefix + slug
}

// Get returns the cached page for slug. Errors count as a miss.
func (pc *PageCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	html, err := pc.client.Get(ctx, ProfileKey(slug)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		slog.Warn("profile cache read failed", "slug", slug, "error", err)
		return nil, false
	}
	return html, true
}

// Set caches html for slug.
func (pc *PageCache) Set(ctx context.Context, slug string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, ProfileKey(slug), html, pc.ttl).Err(); err != nil {
		slog.Warn("profile cache write failed", "slug", slug, "error", err)
	}
}

// Invalidate drops the cached page for slug. Dashboard writes call it so
// the next visitor sees the edit.
func (pc *PageCache) Invalidate(ctx context.Context, slug string) {
	if pc == nil {
		return
	}
	if err := pc.client.Del(ctx, ProfileKey(slug)).Err(); err != nil {
		slog.Warn("profile cache invalidate failed", "slug", slug, "error", err)
	}
}

// InvalidateAll drops every cached profile. Trade defaults feed every
// page, so a catalog sync clears the lot.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}

	var batch []string
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := pc.client.Unlink(ctx, batch...).Err(); err != nil {
			slog.Warn("profile cache flush failed", "error", err)
		}
		batch = batch[:0]
	}

	iter := pc.client.Scan(ctx, 0, pageKeyPrefix+"*", scanBatch).Iterator()
	n := 0
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		n++
		if len(batch) == scanBatch {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		slog.Warn("profile cache scan failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("profile cache cleared", "keys", n)
	}
}
