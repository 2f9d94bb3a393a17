package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(key string) bool
}

// InMemoryLimiter keeps one token bucket per key. A bucket idle long enough to
// refill completely is indistinguishable from a new one, so such buckets are
// dropped on a later call.
type InMemoryLimiter struct {
	clients   map[string]*client
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewInMemoryLimiter allows requests per period with the given burst.
// Example: NewInMemoryLimiter(30, time.Minute, 5) -> one request every 2s, burst of 5.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	interval := per / time.Duration(requests)
	return &InMemoryLimiter{
		clients:   make(map[string]*client),
		r:         rate.Every(interval),
		b:         burst,
		idle:      interval * time.Duration(max(burst, 1)),
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

func (l *InMemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= l.idle {
		l.prune(now)
	}

	c, exists := l.clients[key]
	if !exists {
		c = &client{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// Len reports how many client buckets are held.
func (l *InMemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *InMemoryLimiter) prune(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastPrune = now
}

// Middleware answers 429 once a client IP runs out of tokens.
func Middleware(l Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(c.IP()) {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too Many Requests")
		}
		return c.Next()
	}
}
