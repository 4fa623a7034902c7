package loadbalancer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource int

func (f fixedSource) QueueDepth() int { return int(f) }

func TestSampleOnceComputesMean(t *testing.T) {
	stats := NewStats(3)
	sampler := NewSampler(stats, []QueueSource{fixedSource(2), fixedSource(4), fixedSource(6)})

	sampler.sampleOnce()

	level, ok := stats.TryMeanLevel()
	require.True(t, ok)
	assert.Equal(t, 4, level)
}

func TestSampleOnceWithNoSourcesLeavesMeanUnset(t *testing.T) {
	stats := NewStats(0)
	sampler := NewSampler(stats, nil)

	sampler.sampleOnce()

	level, ok := stats.TryMeanLevel()
	require.True(t, ok)
	assert.Equal(t, 0, level)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	stats := NewStats(1)
	sampler := NewSampler(stats, []QueueSource{fixedSource(1)}, WithSampleInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sampler.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	level, ok := stats.TryMeanLevel()
	require.True(t, ok)
	assert.Equal(t, 1, level)
}
