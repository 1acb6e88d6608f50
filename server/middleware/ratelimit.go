package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/diarsplit/auth"
	apperrors "github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/resilience"
)

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// RequestsPerSecond is the sustained rate allowed per key.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	// Burst is the number of requests a key may send at once.
	Burst int `yaml:"burst" mapstructure:"burst"`
	// KeyFunc extracts the rate limit key from a request. Defaults to SubjectKey.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *RateLimitConfig) ApplyDefaults() {
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 1
	}
	if c.Burst == 0 {
		c.Burst = 5
	}
}

// RateLimit returns a Gin middleware that applies a token bucket per key and
// answers RATE_LIMITED with a Retry-After hint once a bucket is empty.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cfg.ApplyDefaults()
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = SubjectKey
	}
	limiter := resilience.NewKeyedLimiter(resilience.RateLimiterConfig{
		Rate:  cfg.RequestsPerSecond,
		Burst: cfg.Burst,
	})
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.RequestsPerSecond)))

	return func(c *gin.Context) {
		if !limiter.Allow(cfg.KeyFunc(c)) {
			c.Header("Retry-After", retryAfter)
			abortWithError(c, apperrors.RateLimited())
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// SubjectKey uses the authenticated token subject, falling back to client IP.
func SubjectKey(c *gin.Context) string {
	if claims, ok := auth.ClaimsFromContext(c.Request.Context()); ok && claims.Subject != "" {
		return "sub:" + claims.Subject
	}
	return c.ClientIP()
}
