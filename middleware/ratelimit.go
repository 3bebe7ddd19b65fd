package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter throttles requests per caller. Limiters of idle callers
// expire from the cache.
type RateLimiter struct {
	limiters *cache.Cache
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: cache.New(limiterIdleTTL, limiterIdleTTL),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cached, ok := rl.limiters.Get(key); ok {
		limiter := cached.(*rate.Limiter)
		rl.limiters.SetDefault(key, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters.SetDefault(key, limiter)
	return limiter
}

// Handler keys authenticated callers by account and everyone else by IP.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if userID, ok := UserID(c); ok {
			key = userID.String()
		}

		if !rl.limiter(key).Allow() {
			log.WithFields(log.Fields{
				"key":    key,
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("Rate limit exceeded")
			return JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests, please try again later.", nil)
		}
		return c.Next()
	}
}
