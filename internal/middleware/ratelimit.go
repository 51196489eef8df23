package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"moviemind/internal/metrics"
)

const rateLimitPrefix = "moviemind:ratelimit:"

// windowScript counts a hit and returns {count, ttl}. The window TTL is set
// whenever the key has none, so a counter can never outlive its window.
var windowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("TTL", KEYS[1])
if ttl < 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimiter is a Redis fixed-window limiter keyed by client IP.
type RateLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// NewRateLimiter allows maxReqs requests per client per windowSec seconds.
func NewRateLimiter(rdb *redis.Client, maxReqs, windowSec int) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		max:    maxReqs,
		window: time.Duration(windowSec) * time.Second,
	}
}

// hit records one request for key and returns the window count and the
// seconds until the window resets.
func (rl *RateLimiter) hit(ctx context.Context, key string) (int64, int64, error) {
	res, err := windowScript.Run(ctx, rl.rdb, []string{rateLimitPrefix + key}, int64(rl.window.Seconds())).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate limit script returned %d values", len(res))
	}
	return res[0], res[1], nil
}

// Handler returns the limiter middleware. Redis failures let the request
// through.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		count, reset, err := rl.hit(c.Context(), c.IP())
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.max))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(rl.max)-count), 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

		if count > int64(rl.max) {
			metrics.RateLimited.Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"retry_after": reset,
			})
		}
		return c.Next()
	}
}
