// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func valkeyAddr() (host, port string) {
	host, port = os.Getenv("VALKEY_HOST"), os.Getenv("VALKEY_PORT")
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}
	return host, port
}

// pageCacheForTest returns a PageCache on Valkey DB 15 and clears the
// profile keys it leaves behind. It skips when Valkey is down.
func pageCacheForTest(t *testing.T, ttl time.Duration) (*PageCache, *redis.Client) {
	t.Helper()
	host, port := valkeyAddr()
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("valkey not available: %v", err)
	}
	t.Cleanup(func() {
		if keys, _ := client.Keys(ctx, pageKeyPrefix+"*").Result(); len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return NewPageCache(client, ttl), client
}

func TestConnectValkey(t *testing.T) {
	host, port := valkeyAddr()
	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("valkey not available: %v", err)
	}
	defer client.Close()

	if pong, err := client.Ping(context.Background()).Result(); err != nil || pong != "PONG" {
		t.Errorf("ping: got %q, %v", pong, err)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	if _, err := ConnectValkey("127.0.0.1", "1", ""); err == nil {
		t.Error("expected an error for a closed port")
	}
}

func TestPageCacheRoundTrip(t *testing.T) {
	pc, client := pageCacheForTest(t, time.Minute)
	ctx := context.Background()
	const slug = "bayou-city-electric"

	if html, ok := pc.Get(ctx, slug); ok || html != nil {
		t.Fatalf("cold cache: got (%q, %v)", html, ok)
	}

	page := []byte(`<div class="template-wrapper template-bold is-premium">Bayou City Electric</div>`)
	pc.Set(ctx, slug, page)

	html, ok := pc.Get(ctx, slug)
	if !ok || string(html) != string(page) {
		t.Fatalf("warm cache: got (%q, %v)", html, ok)
	}

	ttl, err := client.TTL(ctx, ProfileKey(slug)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl %v outside (0, 1m]", ttl)
	}
}

func TestPageCacheInvalidate(t *testing.T) {
	pc, _ := pageCacheForTest(t, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "edited", []byte("old page"))
	pc.Set(ctx, "untouched", []byte("other page"))
	pc.Invalidate(ctx, "edited")

	if _, ok := pc.Get(ctx, "edited"); ok {
		t.Error("edited profile still cached")
	}
	if _, ok := pc.Get(ctx, "untouched"); !ok {
		t.Error("other profile was dropped")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	pc, client := pageCacheForTest(t, time.Minute)
	ctx := context.Background()

	// More keys than one scan batch, plus an unrelated key that must survive.
	var slugs []string
	for i := 0; i < scanBatch+20; i++ {
		slug := fmt.Sprintf("contractor-%03d", i)
		slugs = append(slugs, slug)
		pc.Set(ctx, slug, []byte("page"))
	}
	client.Set(ctx, "session:keep", "x", time.Minute)
	t.Cleanup(func() { client.Del(ctx, "session:keep") })

	pc.InvalidateAll(ctx)

	for _, slug := range slugs {
		if _, ok := pc.Get(ctx, slug); ok {
			t.Fatalf("%s still cached", slug)
		}
	}
	if n, _ := client.Exists(ctx, "session:keep").Result(); n != 1 {
		t.Error("non-profile key was removed")
	}
}

func TestNilPageCacheMisses(t *testing.T) {
	var pc *PageCache
	ctx := context.Background()

	pc.Set(ctx, "x", []byte("y"))
	pc.Invalidate(ctx, "x")
	pc.InvalidateAll(ctx)
	if _, ok := pc.Get(ctx, "x"); ok {
		t.Error("nil cache reported a hit")
	}
}

func TestNewPageCacheTTL(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, DefaultPageTTL},
		{-time.Second, DefaultPageTTL},
		{time.Minute, time.Minute},
	}
	for _, tt := range tests {
		if got := NewPageCache(nil, tt.in).ttl; got != tt.want {
			t.Errorf("NewPageCache(%v).ttl = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := ProfileKey("lone-star-roofing"); got != "profile:lone-star-roofing" {
		t.Errorf("ProfileKey: got %q", got)
	}
}
