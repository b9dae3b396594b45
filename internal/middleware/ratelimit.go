package middleware

import (
	"context"
	"strconv"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/domain"
)

// Counter increments a fixed-window counter and reports its value and the
// time left in the window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisCounter keeps fixed-window counters in redis with INCR and EXPIRE.
type RedisCounter struct {
	client *goRedis.Client
	prefix string
}

func NewRedisCounter(client *goRedis.Client) *RedisCounter {
	return &RedisCounter{client: client, prefix: "taskmanager:ratelimit:"}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	redisKey := c.prefix + key
	count, err := c.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return count, window, err
		}
	}
	ttl, err := c.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimit rejects clients that exceed limit requests per window with 429.
// Counter failures let the request through.
func RateLimit(counter Counter, limit int, window time.Duration, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if counter == nil || limit <= 0 {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			countCtx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
			count, ttl, err := counter.Incr(countCtx, ctx.RemoteIP().String(), window)
			cancel()
			if err != nil {
				logger.Error("rate limiter error", zap.Error(err))
				next(ctx)
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			ctx.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			ctx.Response.Header.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				seconds := int(ttl.Round(time.Second) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				ctx.Response.Header.Set(fasthttp.HeaderRetryAfter, strconv.Itoa(seconds))
				abort(ctx, domain.ErrTooManyRequests)
				return
			}
			next(ctx)
		}
	}
}
