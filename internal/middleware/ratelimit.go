package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/drug-recommendation-server/internal/domain"
)

// clientLimiter tracks the token bucket for one client IP.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token-bucket limit on requests.
// Idle client entries are pruned in the background.
type RateLimiter struct {
	logger  *logrus.Logger
	limit   rate.Limit
	burst   int
	clients map[string]*clientLimiter
	mu      sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond per
// client with the given burst, and starts its cleanup routine.
func NewRateLimiter(requestsPerSecond float64, burst int, logger *logrus.Logger) *RateLimiter {
	rl := &RateLimiter{
		logger:  logger,
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
	go rl.cleanupLoop(time.Minute, 3*time.Minute)
	return rl
}

// Handler returns the gin middleware enforcing the limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			rl.logger.WithField("client_ip", c.ClientIP()).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewAPIError(
				domain.ErrRateLimit,
				"Too many requests",
				"",
				c.GetString("correlation_id"),
			))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[clientIP]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop(interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if time.Since(client.lastSeen) > maxIdle {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}
