// Package ratelimit throttles clients with fixed windows counted in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/redis/go-redis/v9"
)

// Result is the outcome of counting one request against a window.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts a request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// fixedWindow increments the counter and starts the window on first use.
// It returns the count and the window's remaining lifetime in milliseconds.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return { count, ttl }
`)

// RedisLimiter allows limit requests per window for each key.
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: "ratelimit"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	vals, err := fixedWindow.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("run rate limit script failed: %w", err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("unexpected rate limit script result %v", vals)
	}

	count, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond
	res := Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res, nil
}

// NewRedisClient connects to addr and pings it. It returns nil when addr is
// empty or the server cannot be reached, which disables rate limiting.
func NewRedisClient(ctx context.Context, addr, password string, db int, logger *slog.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WarnContext(ctx, "redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Middleware rejects clients over their limit with 429. Authenticated callers
// are keyed by user id and everyone else by client IP, so it must run after
// any middleware that records the caller. A nil limiter disables it, and
// limiter failures let the request through.
func Middleware(limiter Limiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := clientKey(c)

		res, err := limiter.Allow(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			secs := int(math.Ceil(res.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if id := auth.GetUserID(c); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}
