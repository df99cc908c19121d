package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenLimiterRefills(t *testing.T) {
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	limiter := newTokenLimiter(60, 2)
	limiter.now = func() time.Time { return clock }

	assert.True(t, limiter.allow("station-a"))
	assert.True(t, limiter.allow("station-a"))
	assert.False(t, limiter.allow("station-a"))
	assert.True(t, limiter.allow("station-b"))

	clock = clock.Add(time.Second)
	assert.True(t, limiter.allow("station-a"))
	assert.False(t, limiter.allow("station-a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{IPPerMinute: 1, IPBurst: 1})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := limiter.Middleware(next)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	assert.Equal(t, http.StatusNoContent, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, send("203.0.113.8"))
}
