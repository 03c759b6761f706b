package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustsAndRefills(t *testing.T) {
	tb := NewTokenBucket(2, 1000)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "bucket must be empty after capacity draws")

	// 1000 tokens/s refills within a few milliseconds
	time.Sleep(10 * time.Millisecond)
	assert.True(t, tb.Allow())
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	rl := &RateLimiter{buckets: map[string]*TokenBucket{}, capacity: 1, refillRate: 1}

	assert.True(t, rl.Allow("client-a"))
	assert.False(t, rl.Allow("client-a"))
	assert.True(t, rl.Allow("client-b"), "a drained bucket must not affect other clients")
}

func TestRateLimitMiddlewareRejectsWithRetryAfter(t *testing.T) {
	mw := RateLimitMiddleware(1, 1)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", nil)
	req.RemoteAddr = "10.0.0.9:4321"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddlewareSkipsHealth(t *testing.T) {
	mw := RateLimitMiddleware(1, 1)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.9:4321"

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
