package coingeckoclient

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleSimulatedTimestamps(t *testing.T) {
	interval := 50 * time.Millisecond
	throttle := NewThrottle(interval)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// arrival times of five calls: a burst of three, a late one, then another burst
	arrivals := []time.Time{
		t0,
		t0,
		t0.Add(10 * time.Millisecond),
		t0.Add(400 * time.Millisecond),
		t0.Add(401 * time.Millisecond),
	}

	var starts []time.Time
	for _, now := range arrivals {
		starts = append(starts, now.Add(throttle.reserveAt(now)))
	}

	assert.Equal(t, t0, starts[0])
	assert.Equal(t, t0.Add(50*time.Millisecond), starts[1])
	assert.Equal(t, t0.Add(100*time.Millisecond), starts[2])
	assert.Equal(t, t0.Add(400*time.Millisecond), starts[3])
	assert.Equal(t, t0.Add(450*time.Millisecond), starts[4])

	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), interval)
	}
}

func TestThrottleConcurrentWait(t *testing.T) {
	interval := 20 * time.Millisecond
	throttle := NewThrottle(interval)

	var (
		mu     sync.Mutex
		starts []time.Time
		wg     sync.WaitGroup
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, throttle.Wait(context.Background()))
			mu.Lock()
			starts = append(starts, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	total := starts[len(starts)-1].Sub(starts[0])
	// five gaps of at least one interval each, minus scheduler jitter
	assert.GreaterOrEqual(t, total, 5*interval-5*time.Millisecond)
}

func TestThrottleWaitHonoursContext(t *testing.T) {
	throttle := NewThrottle(time.Hour)
	require.NoError(t, throttle.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, throttle.Wait(ctx))
}

func TestThrottleZeroIntervalNeverWaits(t *testing.T) {
	throttle := NewThrottle(0)
	now := time.Now()
	for i := 0; i < 10; i++ {
		assert.Zero(t, throttle.reserveAt(now))
	}
}
