// Package ratelimit implements a sliding window rate limiter: the cap is
// computed over the trailing window ending at the moment of each check,
// not over fixed buckets, so a burst cannot be doubled across a boundary.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow caps accepted events per key at limit within any trailing
// window. Timestamps for a key are pruned lazily on its next check; keys
// idle past the window are evicted by the janitor so the map stays
// bounded by the set of recently active keys.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string][]time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		entries: make(map[string][]time.Time),
	}
}

// Allow reports whether an event for key may proceed at instant now.
// Accepted events are recorded; rejected ones are not, so a rejected
// sender regains capacity as soon as old timestamps age out.
func (l *SlidingWindow) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	kept := l.entries[key][:0]
	for _, ts := range l.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.entries[key] = kept
		return false
	}

	l.entries[key] = append(kept, now)
	return true
}

// Active returns the number of tracked keys.
func (l *SlidingWindow) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// EvictIdle drops every key whose newest timestamp is older than the
// window as of now.
func (l *SlidingWindow) EvictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	for key, stamps := range l.entries {
		if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Janitor evicts idle keys every interval until ctx is done.
func (l *SlidingWindow) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.EvictIdle(now)
		}
	}
}
