package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenBucketLimiter implements token bucket rate limiting
type TokenBucketLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
	cleanupInt time.Duration
}

type bucket struct {
	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
}

// NewTokenBucketLimiter creates a new token bucket rate limiter
func NewTokenBucketLimiter(maxTokens int, refillRate time.Duration) *TokenBucketLimiter {
	limiter := &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
		cleanupInt: 5 * time.Minute,
	}

	go limiter.cleanup()

	return limiter
}

// Allow checks if a request is allowed
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     l.maxTokens,
			lastRefill: time.Now(),
		}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	tokensToAdd := int(elapsed / l.refillRate)

	if tokensToAdd > 0 {
		b.tokens = min(b.tokens+tokensToAdd, l.maxTokens)
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, nil
	}

	return false, nil
}

// Reset resets the rate limit for a key
func (l *TokenBucketLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.buckets, key)
	return nil
}

// cleanup removes stale buckets periodically
func (l *TokenBucketLimiter) cleanup() {
	ticker := time.NewTicker(l.cleanupInt)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.buckets {
			b.mu.Lock()
			if now.Sub(b.lastRefill) > time.Hour {
				delete(l.buckets, key)
			}
			b.mu.Unlock()
		}
		l.mu.Unlock()
	}
}

// IPRateLimiter wraps a rate limiter for IP-based limiting
type IPRateLimiter struct {
	limiter *TokenBucketLimiter
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(requestsPerMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		limiter: NewTokenBucketLimiter(requestsPerMinute, time.Minute/time.Duration(requestsPerMinute)),
	}
}

// Allow checks if a request from the given IP is allowed
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, "ip:"+ip)
}
