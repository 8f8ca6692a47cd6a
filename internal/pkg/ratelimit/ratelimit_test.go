package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	mu    sync.Mutex
	limit int
	seen  map[string]int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (Result, error) {
	if l.err != nil {
		return Result{}, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key]++
	n := l.seen[key]
	res := Result{Allowed: n <= l.limit, Limit: l.limit, Remaining: max(l.limit-n, 0)}
	if !res.Allowed {
		res.RetryAfter = 1500 * time.Millisecond
	}
	return res, nil
}

func setupRouter(limiter Limiter, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) { auth.SetIdentity(c, userID, "demo") })
	}
	r.Use(Middleware(limiter))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	t.Run("Blocks over limit", func(t *testing.T) {
		limiter := &countingLimiter{limit: 2, seen: map[string]int{}}
		r := setupRouter(limiter, "")

		assert.Equal(t, http.StatusOK, get(r, "10.0.0.1").Code)
		w := get(r, "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

		w = get(r, "10.0.0.1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get("Retry-After"))
		assert.JSONEq(t, `{"message":"Too many requests"}`, w.Body.String())

		// Other clients have their own window.
		assert.Equal(t, http.StatusOK, get(r, "10.0.0.2").Code)
	})

	t.Run("Keys by user when authenticated", func(t *testing.T) {
		limiter := &countingLimiter{limit: 5, seen: map[string]int{}}
		r := setupRouter(limiter, "user-1")

		get(r, "10.0.0.1")
		get(r, "10.0.0.2")
		assert.Equal(t, map[string]int{"user:user-1": 2}, limiter.seen)
	})

	t.Run("Fails open", func(t *testing.T) {
		limiter := &countingLimiter{err: errors.New("redis down")}
		assert.Equal(t, http.StatusOK, get(setupRouter(limiter, ""), "10.0.0.1").Code)
	})

	t.Run("Disabled", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(setupRouter(nil, ""), "10.0.0.1").Code)
	})
}

// TestRedisLimiter needs a live server; set REDIS_TEST_ADDR to run it.
func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())

	l := NewRedisLimiter(rdb, 2, time.Minute)
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, l.prefix+":"+key) })

	res, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)

	_, err = l.Allow(ctx, key)
	require.NoError(t, err)

	res, err = l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, res.RetryAfter, time.Minute)
}
