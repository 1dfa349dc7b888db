// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// visitor holds the recent request times of one client IP, oldest first.
type visitor struct {
	mu   sync.Mutex
	hits []time.Time
}

// prune drops hits at or before cutoff and reports how many remain.
func (v *visitor) prune(cutoff time.Time) int {
	keep := v.hits[:0]
	for _, ts := range v.hits {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	v.hits = keep
	return len(keep)
}

// RateLimiter provides per-IP rate limiting using a sliding window. The
// public lead form is the main consumer: one visitor may submit at most
// limit leads per window across all contractors. limit must be positive.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	onLimit  http.Handler

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
// It starts a background goroutine that forgets idle visitors; call Stop
// to end it.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go rl.sweepLoop(min(window, 5*time.Minute))
	return rl
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	defer close(rl.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			rl.sweep(now)
		case <-rl.stopCh:
			return
		}
	}
}

// OnLimit sets the handler invoked for rejected requests. The default
// answers 429 with a plain-text body. Retry-After is set before h runs.
func (rl *RateLimiter) OnLimit(h http.Handler) *RateLimiter {
	rl.onLimit = h
	return rl
}

// Stop terminates the background goroutine and waits for it to exit.
// Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
	<-rl.done
}

// take records a request for key at now. When the key is over the limit
// it returns false and how long until the oldest request leaves the window.
func (rl *RateLimiter) take(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{}
		rl.visitors[key] = v
	}
	// Lock order is rl.mu then v.mu, as in sweep. Holding both until v is
	// locked keeps sweep from dropping a visitor whose hit is not yet
	// recorded.
	v.mu.Lock()
	rl.mu.Unlock()
	defer v.mu.Unlock()

	cutoff := now.Add(-rl.window)

	if v.prune(cutoff) >= rl.limit {
		return false, v.hits[0].Sub(cutoff)
	}
	v.hits = append(v.hits, now)
	return true, 0
}

// sweep forgets visitors with no hits inside the window ending at now.
func (rl *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		v.mu.Lock()
		idle := v.prune(cutoff) == 0
		v.mu.Unlock()
		if idle {
			delete(rl.visitors, key)
		}
	}
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.take(clientIP(r), time.Now())
		if ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		if rl.onLimit != nil {
			rl.onLimit.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	})
}

// clientIP returns the host part of r.RemoteAddr. Forwarding headers are
// ignored here; behind a trusted proxy the router mounts chi's RealIP,
// which rewrites RemoteAddr first.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
