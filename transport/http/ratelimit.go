package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Fixed-window limits. Counters reset fully at the window boundary, so
// bursts straddling a boundary are accepted; that trade-off keeps the
// limiter a single map lookup per request.
const (
	generalLimit  = 100
	generalWindow = 15 * time.Minute

	authLimit  = 10
	authWindow = 5 * time.Minute

	adminLimit  = 500
	adminWindow = time.Minute

	// sweepEvery bounds stale counters: every N new windows the whole
	// map is swept for expired entries.
	sweepEvery = 100
)

type rateCounter struct {
	count   int
	resetAt time.Time
}

// RateLimiter enforces a maximum number of requests per fixed time
// window. Each key gets an independent counter.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateCounter
	limit   int
	window  time.Duration
	sweeps  int
	nowTime func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*rateCounter),
		limit:   limit,
		window:  window,
		nowTime: time.Now,
	}
}

// Allow records a request for key. It reports whether the request is
// within limits, how many requests remain in the window, and when the
// window resets.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowTime()
	c, exists := rl.windows[key]

	if !exists || !now.Before(c.resetAt) {
		rl.windows[key] = &rateCounter{count: 1, resetAt: now.Add(rl.window)}

		rl.sweeps++
		if rl.sweeps >= sweepEvery {
			rl.sweep(now)
			rl.sweeps = 0
		}

		return true, rl.limit - 1, now.Add(rl.window)
	}

	if c.count >= rl.limit {
		return false, 0, c.resetAt
	}

	c.count++
	return true, rl.limit - c.count, c.resetAt
}

// sweep drops expired counters. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, c := range rl.windows {
		if !now.Before(c.resetAt) {
			delete(rl.windows, k)
		}
	}
}

// clientIP extracts the caller address, trusting the leftmost
// X-Forwarded-For entry when the service runs behind a reverse proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.SplitN(xff, ",", 2)
		ip := strings.TrimSpace(parts[0])
		if ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host
}

// walletFromBody peeks at the JSON body for a wallet field without
// consuming it, so auth endpoints can be limited per {ip, wallet} pair.
func walletFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return "unknown"
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "unknown"
	}

	var body struct {
		Wallet string `json:"wallet"`
	}
	if json.Unmarshal(raw, &body) != nil || body.Wallet == "" {
		return "unknown"
	}
	return strings.ToLower(body.Wallet)
}

// rateLimitMiddleware rejects requests once the key's window is
// exhausted, surfacing the reset time in X-RateLimit-Reset.
func rateLimitMiddleware(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, remaining, resetAt := limiter.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if !allowed {
			log.Warn().Str("key", key).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			abortError(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again after "+resetAt.UTC().Format(time.RFC3339))
			return
		}

		c.Next()
	}
}

// GeneralRateLimit limits by client IP.
func GeneralRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return rateLimitMiddleware(limiter, func(c *gin.Context) string {
		return clientIP(c.Request)
	})
}

// AuthRateLimit limits authentication attempts by {ip, wallet}.
func AuthRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return rateLimitMiddleware(limiter, func(c *gin.Context) string {
		return clientIP(c.Request) + ":" + walletFromBody(c)
	})
}

// AdminRateLimit limits admin operations by IP under a looser threshold.
func AdminRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return rateLimitMiddleware(limiter, func(c *gin.Context) string {
		return "admin:" + clientIP(c.Request)
	})
}
