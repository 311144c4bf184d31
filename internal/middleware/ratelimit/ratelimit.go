package ratelimit

import (
	"sync"
	"time"
)

type clientCounter struct {
	Count     int
	LastReset time.Time
}

// RateLimiter is a fixed-window per-client limiter. Clients are keyed by
// whatever identifier the caller passes in, here the remote IP.
type RateLimiter struct {
	counters map[string]*clientCounter
	limit    int
	window   time.Duration
	mu       sync.Mutex
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		counters: make(map[string]*clientCounter),
		limit:    limit,
		window:   window,
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for range ticker.C {
			rl.cleanup()
		}
	}()

	return rl
}

func (rl *RateLimiter) IsAllowed(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	counter, exists := rl.counters[clientID]

	if !exists {
		rl.counters[clientID] = &clientCounter{
			Count:     1,
			LastReset: now,
		}
		return true
	}

	// Reset counter when the window has passed
	if now.Sub(counter.LastReset) >= rl.window {
		counter.Count = 1
		counter.LastReset = now
		return true
	}

	if counter.Count >= rl.limit {
		return false
	}

	counter.Count++
	return true
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for clientID, counter := range rl.counters {
		if now.Sub(counter.LastReset) >= rl.window {
			delete(rl.counters, clientID)
		}
	}
}
