// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// maxLimiters bounds the number of tracked clients. The least recently seen
// client loses its limiter first.
const maxLimiters = 10000

// limiterCache is a bounded set of rate limiters keyed by client.
type limiterCache[K comparable] struct {
	mu       sync.Mutex
	limiters *lru.Cache[K, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	c, _ := lru.New[K, *rate.Limiter](maxLimiters)
	return &limiterCache[K]{
		limiters: c,
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if l, ok := lc.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters.Add(key, l)
	return l
}

func (lc *limiterCache[K]) len() int {
	return lc.limiters.Len()
}

// RateLimit creates middleware that limits unsafe requests per client IP.
// Reads are never limited.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache[string](rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			ip := getClientIP(r)
			if !cache.get(ip).Allow() {
				slog.WarnContext(r.Context(), "rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too many requests. Please slow down.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host of RemoteAddr. Forwarding headers are not
// read here: chi's RealIP, mounted ahead of every limiter, has already
// folded them into RemoteAddr for deployments behind a proxy.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
