package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ekoseller/eko-seller-api/internal/config"
)

// NewOTPRateLimiter returns a per-IP sliding-window rate limiter for
// the resend-OTP endpoint.  The window is tracked in a Redis sorted
// set per source address: each request is scored with its timestamp,
// entries older than the window are dropped, and the request is
// rejected once the set holds cfg.Max entries.  When Redis is
// unavailable the limiter fails open so verification mail is never
// blocked by a cache outage.
func NewOTPRateLimiter(cfg config.OTPRateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	limiterScript := redis.NewScript(`
        local key = KEYS[1]
        local now_ms = tonumber(ARGV[1])
        local window_ms = tonumber(ARGV[2])
        local max = tonumber(ARGV[3])

        redis.call('ZREMRANGEBYSCORE', key, 0, now_ms - window_ms)

        local count = redis.call('ZCARD', key)
        if count >= max then
            local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
            local retry_after_ms = 0
            if oldest[2] then
                retry_after_ms = window_ms - (now_ms - tonumber(oldest[2]))
                if retry_after_ms < 0 then retry_after_ms = 0 end
            end
            return { 0, count, retry_after_ms }
        end

        redis.call('ZADD', key, now_ms, tostring(now_ms) .. '-' .. tostring(math.random(1000000)))
        redis.call('PEXPIRE', key, window_ms)
        return { 1, count + 1, 0 }
    `)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := fmt.Sprintf("%s:ip:%s", cfg.Prefix, ip)
			now := time.Now()

			ctx := c.Request().Context()
			vals, err := limiterScript.Run(ctx, rdb, []string{key},
				now.UnixMilli(), cfg.Window.Milliseconds(), cfg.Max).Result()
			if err != nil {
				// Redis down: let the request through.
				return next(c)
			}

			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				return next(c)
			}
			allowed := asInt64(arr[0]) == 1
			used := asInt64(arr[1])
			retryMs := asInt64(arr[2])

			remaining := int64(cfg.Max) - used
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"success": false,
					"message": "Too many OTP requests from this IP, please try again later.",
				})
			}
			return next(c)
		}
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
