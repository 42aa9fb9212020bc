package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     3,
		interval: time.Minute,
	}
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("10.0.0.1", now), "request %d within budget", i+1)
	}
	assert.False(t, rl.allow("10.0.0.1", now), "budget exhausted")

	// Other clients have their own bucket.
	assert.True(t, rl.allow("10.0.0.2", now))

	// A full interval later the bucket refills.
	assert.True(t, rl.allow("10.0.0.1", now.Add(time.Minute)))
}

func TestRateLimiterSweep(t *testing.T) {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     1,
		interval: time.Minute,
	}
	now := time.Now()
	rl.allow("10.0.0.1", now)

	rl.sweep(now.Add(time.Minute))
	assert.Len(t, rl.buckets, 1, "recent bucket survives the sweep")

	rl.sweep(now.Add(5 * time.Minute))
	assert.Len(t, rl.buckets, 0, "idle bucket is dropped")
}
