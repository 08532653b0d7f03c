// Package ratelimit provides per-client token bucket rate limiting for the
// HTTP API. Auth endpoints get a tight budget; everything else shares a
// generous default.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// Rule is a per-endpoint budget: limit requests per window, with burst
// capacity equal to the limit.
type Rule struct {
	PathPrefix string
	Limit      int
	Window     time.Duration
}

// Config holds the limiter configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Rules         []Rule
}

// DefaultConfig returns the budgets used by the jobtrack server: login and
// register are brute-force targets and get 10/min, everything else 300/min.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  300,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{PathPrefix: "/auth/", Limit: 10, Window: time.Minute},
		},
	}
}

// Info describes the rate limit state returned with every decision.
type Info struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

// Limiter tracks one token bucket per client+rule pair.
type Limiter struct {
	mu      sync.Mutex
	config  *Config
	buckets map[string]*bucket
	access  map[string]time.Time

	cleanupStop chan struct{}
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		config:      config,
		buckets:     make(map[string]*bucket),
		access:      make(map[string]time.Time),
		cleanupStop: make(chan struct{}),
	}
	if config.Enabled {
		go l.cleanupLoop()
	}
	return l
}

// Allow reports whether a request from clientID for path is within budget.
func (l *Limiter) Allow(clientID, path string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{}
	}

	limit, window := l.config.DefaultLimit, l.config.DefaultWindow
	ruleKey := "default"
	for _, r := range l.config.Rules {
		if strings.HasPrefix(path, r.PathPrefix) {
			limit, window = r.Limit, r.Window
			ruleKey = r.PathPrefix
			break
		}
	}
	if limit <= 0 {
		return true, Info{}
	}

	now := time.Now()
	key := clientID + ":" + ruleKey

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			capacity:   float64(limit),
			refillRate: float64(limit) / window.Seconds(),
			tokens:     float64(limit),
			lastRefill: now,
		}
		l.buckets[key] = b
	}
	l.access[key] = now

	b.refill(now)
	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}

	info := Info{
		Limit:     limit,
		Remaining: int(b.tokens),
	}
	if b.tokens < b.capacity {
		secondsUntilFull := (b.capacity - b.tokens) / b.refillRate
		info.ResetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	} else {
		info.ResetTime = now
	}
	if !allowed {
		info.RetryAfter = time.Duration(1 / b.refillRate * float64(time.Second))
	}
	return allowed, info
}

// cleanupLoop drops buckets idle for over an hour.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Hour)
			l.mu.Lock()
			for key, last := range l.access {
				if last.Before(cutoff) {
					delete(l.buckets, key)
					delete(l.access, key)
				}
			}
			l.mu.Unlock()
		case <-l.cleanupStop:
			return
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.cleanupStop)
}
