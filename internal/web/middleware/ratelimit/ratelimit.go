// Package ratelimit throttles requests per client IP with token buckets.
package ratelimit

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// maxEntries bounds the limiter map, it is reset when exceeded.
const maxEntries = 10000

// Config configures the middleware.
type Config struct {
	// Rate is the number of requests per second refilled per IP.
	Rate float64
	// Burst is the bucket size.
	Burst int
	// LimitReached answers throttled requests. Defaults to 429.
	LimitReached fiber.Handler
}

// limiterCache hands out one limiter per key.
type limiterCache struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLimiterCache(rps float64, burst int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	if len(lc.limiters) >= maxEntries {
		lc.limiters = make(map[string]*rate.Limiter)
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter

	return limiter
}

// New returns a middleware allowing cfg.Rate requests per second per IP.
func New(cfg Config) fiber.Handler {
	if cfg.Rate <= 0 {
		cfg.Rate = 0.5
	}

	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	if cfg.LimitReached == nil {
		cfg.LimitReached = func(_ *fiber.Ctx) error {
			return fiber.ErrTooManyRequests
		}
	}

	cache := newLimiterCache(cfg.Rate, cfg.Burst)

	return func(c *fiber.Ctx) error {
		if !cache.get(c.IP()).Allow() {
			log.Warn().Str("ip", c.IP()).Str("path", c.Path()).Msg("rate limit reached")
			return cfg.LimitReached(c)
		}

		return c.Next()
	}
}
