package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// orderKeyTTL bounds how long a processed order id is remembered. Provider
// webhook retries arrive within hours, not days.
const orderKeyTTL = 24 * time.Hour

// OrderTracker records payment-callback order ids so replayed provider
// webhooks can be told apart from first deliveries.
type OrderTracker interface {
	// FirstSeen records orderID and reports whether this was its first
	// delivery. Tracker backend failures report true: a dropped replay
	// flag is preferable to rejecting a legitimate first callback.
	FirstSeen(ctx context.Context, orderID string) bool
}

// RedisOrderTracker tracks processed order ids in Redis so replays are
// recognized across process restarts and replicas.
type RedisOrderTracker struct {
	client *redis.Client
}

// NewRedisOrderTracker creates an order tracker over the given Redis client.
func NewRedisOrderTracker(client *redis.Client) *RedisOrderTracker {
	return &RedisOrderTracker{client: client}
}

func (t *RedisOrderTracker) FirstSeen(ctx context.Context, orderID string) bool {
	first, err := t.client.SetNX(ctx, "crypto:order:"+orderID, 1, orderKeyTTL).Result()
	if err != nil {
		log.Printf("Order tracker: Redis unavailable, skipping replay check: %v", err)
		return true
	}
	return first
}

// MemoryOrderTracker is the in-process fallback used when Redis is not
// configured, and in tests.
type MemoryOrderTracker struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

// NewMemoryOrderTracker creates an in-memory order tracker.
func NewMemoryOrderTracker() *MemoryOrderTracker {
	return &MemoryOrderTracker{
		seen: make(map[string]time.Time),
		ttl:  orderKeyTTL,
	}
}

func (t *MemoryOrderTracker) FirstSeen(_ context.Context, orderID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for id, expiry := range t.seen {
		if now.After(expiry) {
			delete(t.seen, id)
		}
	}

	if _, ok := t.seen[orderID]; ok {
		return false
	}
	t.seen[orderID] = now.Add(t.ttl)
	return true
}
