package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/2beens/ormchart/internal/telemetry/metrics"
)

type countingLimiter struct {
	allowed int
	keys    []string
	err     error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	if len(l.keys) > l.allowed {
		return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: 30 * time.Second}, nil
	}
	return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: l.allowed - len(l.keys)}, nil
}

func TestRateLimit(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	limiter := &countingLimiter{allowed: 2}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RateLimit(limiter, "ormchart-admin", 2, IsAdminRequest, metricsManager)(next)

	// not limited route
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/exercises", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Empty(t, limiter.keys)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/records/reload", nil)
		req.Header.Set("X-Real-Ip", "10.0.0.7")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		statuses = append(statuses, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	assert.Equal(t, "ormchart-admin:10.0.0.7", limiter.keys[0])
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
}

func TestRateLimit_LimiterError(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis down")}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RateLimit(limiter, "ormchart-admin", 2, nil, nil)(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/exercises", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
