package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestAllow_FormPostsPerClient(t *testing.T) {
	tests := []struct {
		name     string
		perMin   int
		burst    int
		posts    int
		wantPass int
	}{
		{"within burst", 60, 3, 3, 3},
		{"over burst", 60, 2, 5, 2},
		{"single slot", 1, 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(PerMinute(tt.perMin), tt.burst)
			defer rl.Stop()

			passed := 0
			for range tt.posts {
				if rl.Allow("203.0.113.7") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	rl := New(PerMinute(1), 1)
	defer rl.Stop()

	require.True(t, rl.Allow("203.0.113.7"))
	assert.False(t, rl.Allow("203.0.113.7"))
	assert.True(t, rl.Allow("198.51.100.2"))
	assert.Equal(t, 2, rl.Len())
}

func TestWait_PacesBackendCalls(t *testing.T) {
	rl := New(20, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, rl.Wait(ctx, "backend"))
	assert.Less(t, time.Since(start), 30*time.Millisecond, "first call uses the burst")

	start = time.Now()
	require.NoError(t, rl.Wait(ctx, "backend"))
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond, "second call waits for a token")
}

func TestWait_GivesUpWithContext(t *testing.T) {
	rl := New(PerMinute(1), 1)
	defer rl.Stop()
	rl.Allow("backend")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, rl.Wait(ctx, "backend"))
}

func TestSweep_ForgetsIdleClients(t *testing.T) {
	rl := New(1, 1, WithIdleTTL(time.Minute))
	defer rl.Stop()

	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	rl.Allow("10.0.0.1")
	advance(30 * time.Second)
	rl.Allow("10.0.0.2")

	advance(45 * time.Second)
	assert.Equal(t, 1, rl.sweep())
	assert.Equal(t, 1, rl.Len())

	assert.True(t, rl.Allow("10.0.0.1"), "a forgotten client starts with a full bucket")
}

func TestStop_EndsCleanup(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := New(1, 1)
	rl.Stop()
	rl.Stop()
}

func TestPerMinute(t *testing.T) {
	assert.InDelta(t, 1.0, PerMinute(60), 1e-9)
	assert.InDelta(t, 0.5, PerMinute(30), 1e-9)
}
