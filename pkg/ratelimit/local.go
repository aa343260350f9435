package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalLimiter keeps one token bucket per client in process memory.
// Idle buckets are dropped after an hour so the map does not grow
// without bound.
type LocalLimiter struct {
	mu       sync.Mutex
	clients  map[string]*localClient
	limit    rate.Limit
	burst    int
	lastSeen func() time.Time
}

type localClient struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewLocalLimiter allows perMinute requests per client with a burst of
// the same size.
func NewLocalLimiter(perMinute int) *LocalLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &LocalLimiter{
		clients:  make(map[string]*localClient),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		lastSeen: time.Now,
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	now := l.lastSeen()

	l.mu.Lock()
	c, ok := l.clients[clientKey]
	if !ok {
		c = &localClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientKey] = c
	}
	c.seen = now
	for key, other := range l.clients {
		if now.Sub(other.seen) > time.Hour {
			delete(l.clients, key)
		}
	}
	l.mu.Unlock()

	return c.limiter.Allow(), nil
}

func (l *LocalLimiter) Close() error {
	return nil
}
