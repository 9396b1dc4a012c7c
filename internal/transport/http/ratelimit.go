package http

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const rateWindow = time.Minute

// rateLimiter counts events in fixed one-minute windows.
type rateLimiter struct {
	clock clock.Clock
	limit int

	mu      sync.Mutex
	window  time.Time
	counter int
}

func newRateLimiter(clk clock.Clock, limit int) *rateLimiter {
	return &rateLimiter{clock: clk, limit: limit}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if now.Sub(r.window) >= rateWindow {
		r.window = now
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}

func (r *rateLimiter) expired(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Sub(r.window) >= rateWindow
}

// clientLimiter keeps one rateLimiter per client key.
type clientLimiter struct {
	clock clock.Clock
	limit int

	mu      sync.Mutex
	clients map[string]*rateLimiter
}

// pruneAt is the client count above which expired windows are dropped.
const pruneAt = 1024

func newClientLimiter(clk clock.Clock, limit int) *clientLimiter {
	return &clientLimiter{
		clock:   clk,
		limit:   limit,
		clients: make(map[string]*rateLimiter),
	}
}

func (l *clientLimiter) allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	r, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= pruneAt {
			l.pruneLocked()
		}
		r = newRateLimiter(l.clock, l.limit)
		l.clients[key] = r
	}
	l.mu.Unlock()

	return r.allow()
}

func (l *clientLimiter) pruneLocked() {
	now := l.clock.Now()
	for key, r := range l.clients {
		if r.expired(now) {
			delete(l.clients, key)
		}
	}
}
