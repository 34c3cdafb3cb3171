package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_DisabledPassesThrough(t *testing.T) {
	handler := RateLimitMiddleware(RateLimitConfig{Enabled: false})(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/graphql", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitMiddleware_ExhaustsBurst(t *testing.T) {
	// One token per second with a burst of two: the third immediate
	// request must be rejected.
	handler := RateLimitMiddleware(RateLimitConfig{Enabled: true, RPS: 1, Burst: 2})(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/graphql", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/graphql", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestTokenBucket_ZeroConfigAllowsEverything(t *testing.T) {
	bucket := newTokenBucket(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, bucket.Allow())
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	bucket := newTokenBucket(1000, 1)
	assert.True(t, bucket.Allow())
	assert.False(t, bucket.Allow())

	// At 1000 tokens per second a refill lands within a few
	// milliseconds.
	assert.Eventually(t, bucket.Allow, 250*time.Millisecond, time.Millisecond)
}
