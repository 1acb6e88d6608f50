package resilience

import (
	"sync"
	"time"
)

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Rate is the number of requests allowed per second.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the bucket size.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// RateLimiter is a token bucket.
type RateLimiter struct {
	config RateLimiterConfig
	now    func() time.Time

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a full bucket. A non-positive Rate defaults to 1
// request per second and a non-positive Burst to max(1, Rate).
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return newRateLimiter(config, time.Now)
}

func newRateLimiter(config RateLimiterConfig, now func() time.Time) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 1
	}
	if config.Burst <= 0 {
		config.Burst = max(1, int(config.Rate))
	}
	return &RateLimiter{
		config:     config,
		now:        now,
		tokens:     float64(config.Burst),
		lastRefill: now(),
	}
}

// Allow consumes one token if available.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN consumes n tokens if available.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}
	return false
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// full reports whether the bucket has refilled completely.
func (rl *RateLimiter) full() bool {
	return rl.Tokens() >= float64(rl.config.Burst)
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now

	rl.tokens += elapsed * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// KeyedLimiter keeps one token bucket per key, such as a client IP.
// Buckets that have refilled completely are dropped on a periodic sweep
// performed inline by Allow.
type KeyedLimiter struct {
	config RateLimiterConfig
	now    func() time.Time

	mu        sync.Mutex
	limiters  map[string]*RateLimiter
	lastSweep time.Time
}

const sweepInterval = time.Minute

// NewKeyedLimiter creates an empty KeyedLimiter.
func NewKeyedLimiter(config RateLimiterConfig) *KeyedLimiter {
	return &KeyedLimiter{
		config:    config,
		now:       time.Now,
		limiters:  make(map[string]*RateLimiter),
		lastSweep: time.Now(),
	}
}

// Allow consumes one token from key's bucket.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	now := k.now()
	if now.Sub(k.lastSweep) >= sweepInterval {
		for id, rl := range k.limiters {
			if rl.full() {
				delete(k.limiters, id)
			}
		}
		k.lastSweep = now
	}
	rl, ok := k.limiters[key]
	if !ok {
		rl = newRateLimiter(k.config, k.now)
		k.limiters[key] = rl
	}
	k.mu.Unlock()
	return rl.Allow()
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}
