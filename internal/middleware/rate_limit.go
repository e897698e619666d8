package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/letiskotransfer/transfer-api/internal/models"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
	"github.com/letiskotransfer/transfer-api/pkg/metrics"
)

const (
	// visitorTTL is how long an idle client keeps its limiter
	visitorTTL = 10 * time.Minute

	rateLimitedMessage = "Too many requests. Please try again later."
)

// RateLimiter implements an in-memory rate limiter per client IP. Idle
// visitors expire from the cache, so memory is bounded by recent traffic.
type RateLimiter struct {
	visitors *gocache.Cache
	mu       sync.Mutex
	r        rate.Limit // requests per second
	b        int        // burst size
}

// NewRateLimiter creates a new rate limiter
// r: requests per second
// b: burst size
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: gocache.New(visitorTTL, time.Minute),
		r:        r,
		b:        b,
	}
}

// PerMinute converts a per-minute budget into a rate.Limit
func PerMinute(n float64) rate.Limit {
	return rate.Limit(n / 60)
}

// getVisitor returns the rate limiter for a given IP address and refreshes its expiry
func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cached, found := rl.visitors.Get(ip); found {
		limiter := cached.(*rate.Limiter)
		rl.visitors.SetDefault(ip, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(rl.r, rl.b)
	rl.visitors.SetDefault(ip, limiter)
	return limiter
}

// Visitors returns the number of tracked clients
func (rl *RateLimiter) Visitors() int {
	return rl.visitors.ItemCount()
}

// Middleware returns a Gin middleware function for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := rl.getVisitor(ip)

		if !limiter.Allow() {
			metrics.RateLimitedRequests.WithLabelValues(c.FullPath()).Inc()
			logger.Warn("Rate limit exceeded", zap.String("client_ip", ip), zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.MessageFailure(rateLimitedMessage))
			return
		}

		c.Next()
	}
}
