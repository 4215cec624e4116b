package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apierrors "github.com/feral-file/ff-bitmap/internal/api/errors"
	"github.com/feral-file/ff-bitmap/internal/logger"
)

const (
	// Limiters idle for longer than this are dropped on the next sweep
	clientIdleTimeout = 10 * time.Minute
	sweepThreshold    = 1024
)

// RateLimitConfig holds per-client request rate limits
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Enabled reports whether a positive rate is configured
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func (r *rateLimiter) get(key string, now time.Time) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.clients) >= sweepThreshold {
		for k, c := range r.clients {
			if now.Sub(c.lastSeen) > clientIdleTimeout {
				delete(r.clients, k)
			}
		}
	}

	c, ok := r.clients[key]
	if !ok {
		burst := r.config.Burst
		if burst < 1 {
			burst = int(math.Max(1, math.Ceil(r.config.RequestsPerSecond)))
		}
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(r.config.RequestsPerSecond), burst)}
		r.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// RateLimit returns a gin middleware limiting each client IP to the configured rate.
// A disabled config yields a pass-through middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	r := &rateLimiter{
		config:  cfg,
		clients: make(map[string]*clientLimiter),
	}

	return func(c *gin.Context) {
		now := time.Now()
		reservation := r.get(c.ClientIP(), now).ReserveN(now, 1)
		if !reservation.OK() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.NewRateLimitedError("Too many requests"))
			return
		}
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			logger.WarnCtx(c.Request.Context(), "Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("retry_after", delay),
			)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.NewRateLimitedError("Too many requests"))
			return
		}
		c.Next()
	}
}
