package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/soundscape/rand"
)

func TestSchedulerProbability(t *testing.T) {
	always := NewScheduler(time.Hour, 1, rand.New(1), func() {})
	never := NewScheduler(time.Hour, 0, rand.New(1), func() {})
	for i := 0; i < 100; i++ {
		assert.True(t, always.tick())
		assert.False(t, never.tick())
	}
	assert.Equal(t, 100, always.Fired())
	assert.Equal(t, 0, never.Fired())
	assert.Equal(t, 100, never.Ticks())

	sometimes := NewScheduler(time.Hour, 0.3, rand.New(2), func() {})
	for i := 0; i < 10000; i++ {
		sometimes.tick()
	}
	assert.InDelta(t, 3000, sometimes.Fired(), 300)
}

func TestSchedulerFiresUntilStopped(t *testing.T) {
	var count atomic.Int32
	s := NewScheduler(time.Millisecond, 1, rand.New(3), func() { count.Add(1) })
	s.Start()
	s.Start()
	require.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)
	s.Stop()
	stopped := count.Load()
	assert.Equal(t, int(stopped), s.Fired())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, count.Load())
	assert.True(t, s.Stopped())
	s.Stop()
}

func TestSchedulerStopWaitsForTickInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var count atomic.Int32
	s := NewScheduler(time.Hour, 1, rand.New(4), func() {
		if count.Add(1) == 1 {
			close(entered)
			<-release
		}
	})
	go s.tick()
	<-entered

	stopReturned := make(chan struct{})
	go func() {
		s.Stop()
		close(stopReturned)
	}()
	select {
	case <-stopReturned:
		t.Fatal("Stop returned while onFire was still running")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-stopReturned

	// the tick that was pending when Stop was called must not fire
	assert.False(t, s.tick())
	assert.Equal(t, int32(1), count.Load())
}

func TestSchedulerStopBeforeStart(t *testing.T) {
	s := NewScheduler(time.Millisecond, 1, rand.New(5), func() { t.Error("fired after Stop") })
	s.Stop()
	s.Start()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, s.Ticks())
}

func TestSchedulerRejectsNonPositiveInterval(t *testing.T) {
	assert.Panics(t, func() { NewScheduler(0, 0.3, rand.New(6), func() {}) })
	assert.Panics(t, func() { NewScheduler(-time.Second, 0.3, rand.New(6), func() {}) })
}
