package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// clientLimiter tracks the token bucket for a single client IP.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket across the whole API.
type RateLimiter struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	refill  rate.Limit
	burst   int
	logger  *zap.Logger
}

// NewRateLimiter creates a RateLimiter refilling refillRate tokens per
// second with the given burst size, and starts the idle-client sweeper.
func NewRateLimiter(refillRate float64, burst int, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		refill:  rate.Limit(refillRate),
		burst:   burst,
		logger:  logger,
	}
	go rl.cleanupClients()
	return rl
}

func (rl *RateLimiter) getClientLimiter(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.refill, rl.burst)}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()
	return client.limiter
}

// cleanupClients periodically drops clients that have gone quiet so the map
// does not grow without bound.
func (rl *RateLimiter) cleanupClients() {
	for {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		removed := 0
		for ip, client := range rl.clients {
			if time.Since(client.lastSeen) > 30*time.Minute {
				delete(rl.clients, ip)
				removed++
			}
		}
		rl.mu.Unlock()
		if removed > 0 {
			rl.logger.Debug("rate limiter cleanup", zap.Int("removed", removed))
		}
	}
}

// Limit creates the Gin middleware handler.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getClientLimiter(c.ClientIP())
		if !limiter.Allow() {
			rl.logger.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
