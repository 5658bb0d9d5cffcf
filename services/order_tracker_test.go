package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryOrderTrackerFirstSeen(t *testing.T) {
	tracker := NewMemoryOrderTracker()
	ctx := context.Background()

	assert.True(t, tracker.FirstSeen(ctx, "abc123"))
	assert.False(t, tracker.FirstSeen(ctx, "abc123"), "replay must not count as first delivery")
	assert.True(t, tracker.FirstSeen(ctx, "xyz789"), "distinct orders are tracked independently")
}

func TestMemoryOrderTrackerExpiry(t *testing.T) {
	tracker := NewMemoryOrderTracker()
	tracker.ttl = 5 * time.Millisecond
	ctx := context.Background()

	assert.True(t, tracker.FirstSeen(ctx, "abc123"))
	time.Sleep(10 * time.Millisecond)
	assert.True(t, tracker.FirstSeen(ctx, "abc123"), "expired entries are forgotten")
}
