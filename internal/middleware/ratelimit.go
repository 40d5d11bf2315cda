package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiterConfig configures the per-client token bucket.
type RateLimiterConfig struct {
	// RequestsPerSecond is the rate of token refill.
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests allowed in a burst.
	BurstSize int

	// CleanupInterval is how often idle buckets are dropped.
	CleanupInterval time.Duration

	// KeyFunc extracts the rate limit key from the request.
	// Default: client IP address.
	KeyFunc func(r *http.Request) string
}

// DefaultRateLimiterConfig returns the limits applied to the whole API.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 20,
		BurstSize:         40,
		CleanupInterval:   time.Minute,
		KeyFunc:           GetClientIP,
	}
}

// StrictRateLimiterConfig returns tighter limits for the checkout endpoint,
// where a burst of retries means a stuck client, not a busy shopper.
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         5,
		CleanupInterval:   time.Minute,
		KeyFunc:           GetClientIP,
	}
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimiter is an in-memory token bucket limiter keyed per client.
type RateLimiter struct {
	config  RateLimiterConfig
	buckets map[string]*tokenBucket
	mu      sync.RWMutex
	stop    chan struct{}
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = GetClientIP
	}

	rl := &RateLimiter{
		config:  config,
		buckets: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether a request under key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	bucket, exists := rl.buckets[key]
	if !exists {
		bucket = &tokenBucket{
			tokens:     float64(rl.config.BurstSize),
			lastRefill: time.Now(),
		}
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(bucket.lastRefill).Seconds()
	bucket.tokens += elapsed * rl.config.RequestsPerSecond
	if bucket.tokens > float64(rl.config.BurstSize) {
		bucket.tokens = float64(rl.config.BurstSize)
	}
	bucket.lastRefill = now

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true
	}
	return false
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, bucket := range rl.buckets {
				bucket.mu.Lock()
				if bucket.tokens >= float64(rl.config.BurstSize) &&
					now.Sub(bucket.lastRefill) > rl.config.CleanupInterval {
					delete(rl.buckets, key)
				}
				bucket.mu.Unlock()
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop stops the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.config.KeyFunc(r)) {
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP, preferring proxy headers. The reverse
// proxy must strip client-supplied X-Forwarded-For for this to be trustworthy.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
