package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
	"golang.org/x/time/rate"
)

// RateLimiter holds a token bucket per client IP. Used on the public
// contact form, which takes unauthenticated traffic from the marketing
// site.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing rps requests per second per IP
func NewRateLimiter(rps int) *RateLimiter {
	if rps <= 0 {
		rps = 5
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    rps * 2,
	}
}

func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[clientIP]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[clientIP] = limiter
	}

	return limiter
}

// Cleanup periodically resets the limiter map to bound memory
func (rl *RateLimiter) Cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			if len(rl.limiters) > 10000 {
				rl.limiters = make(map[string]*rate.Limiter)
			}
			rl.mu.Unlock()
		}
	}()
}

// RateLimit limits requests per client IP
func RateLimit(rl *RateLimiter) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		limiter := rl.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			response.ErrorWithCode(ctx, c, errcode.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}
