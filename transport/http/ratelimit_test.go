package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3, time.Minute)
	limiter.nowTime = func() time.Time { return now }

	for want := 2; want >= 0; want-- {
		allowed, remaining, resetAt := limiter.Allow("1.2.3.4")
		require.True(t, allowed)
		require.Equal(t, want, remaining)
		require.Equal(t, now.Add(time.Minute), resetAt)
	}

	allowed, remaining, resetAt := limiter.Allow("1.2.3.4")
	require.False(t, allowed)
	require.Equal(t, 0, remaining)
	require.Equal(t, now.Add(time.Minute), resetAt)
}

func TestRateLimiterWindowRollover(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute)
	limiter.nowTime = func() time.Time { return now }

	allowed, _, _ := limiter.Allow("key")
	require.True(t, allowed)
	allowed, _, _ = limiter.Allow("key")
	require.False(t, allowed)

	now = now.Add(time.Minute)

	allowed, remaining, _ := limiter.Allow("key")
	require.True(t, allowed)
	require.Equal(t, 0, remaining)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	allowed, _, _ := limiter.Allow("a")
	require.True(t, allowed)
	allowed, _, _ = limiter.Allow("a")
	require.False(t, allowed)

	allowed, _, _ = limiter.Allow("b")
	require.True(t, allowed)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:12345"
	require.Equal(t, "10.0.0.5", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.5")
	require.Equal(t, "203.0.113.7", clientIP(r))

	r.Header.Set("X-Forwarded-For", "not-an-ip")
	require.Equal(t, "10.0.0.5", clientIP(r))
}

func TestWalletFromBodyRestoresBody(t *testing.T) {
	router := gin.New()
	var key, seen string
	router.POST("/", func(c *gin.Context) {
		key = walletFromBody(c)
		raw, _ := io.ReadAll(c.Request.Body)
		seen = string(raw)
		c.Status(http.StatusOK)
	})

	body := `{"wallet":"0xABCDEF"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, "0xabcdef", key)
	// The peek must leave the body readable for the handler.
	require.Equal(t, body, seen)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	router := gin.New()
	router.GET("/", GeneralRateLimit(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	get := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "1.2.3.4:1000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w
	}

	first := get()
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	get()
	third := get()
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	require.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, third.Header().Get("X-RateLimit-Reset"))
	require.Contains(t, third.Body.String(), "Rate limit exceeded")
}
