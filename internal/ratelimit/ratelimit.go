// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out a token bucket per key. Buckets idle for longer than
// expire are dropped the next time the map is swept.
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	lastSeen  map[string]time.Time
	every     time.Duration
	burst     int
	expire    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// New creates a Limiter allowing one event per every with the given burst.
func New(every time.Duration, burst int, expire time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	if expire <= 0 {
		expire = time.Hour
	}
	return &Limiter{
		limiters:  make(map[string]*rate.Limiter),
		lastSeen:  make(map[string]time.Time),
		every:     every,
		burst:     burst,
		expire:    expire,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether key may perform one more event now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.expire {
		l.sweep(now)
	}

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.every), l.burst)
		l.limiters[key] = limiter
	}
	l.lastSeen[key] = now
	return limiter.AllowN(now, 1)
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *Limiter) sweep(now time.Time) {
	cutoff := now.Add(-l.expire)
	for key, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.limiters, key)
			delete(l.lastSeen, key)
		}
	}
	l.lastSweep = now
}
