package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/vsariola/soundscape/rand"
)

// Scheduler fires onFire with a given probability on every tick of a repeating
// timer. Ticks and Stop are serialized by the scheduler's mutex and onFire runs
// while the mutex is held, so once Stop has returned, onFire is never called
// again, not even by a tick that was already pending when Stop was called.
type Scheduler struct {
	interval    time.Duration
	probability float64
	rng         *rand.Rand
	onFire      func()

	mutex   sync.Mutex
	started bool
	stopped bool
	ticks   int
	fired   int

	done   chan struct{} // closed by Stop
	exited chan struct{} // closed when the timer goroutine returns
}

// NewScheduler panics if interval is not positive.
func NewScheduler(interval time.Duration, probability float64, rng *rand.Rand, onFire func()) *Scheduler {
	if interval <= 0 {
		panic(fmt.Sprintf("engine: scheduler interval must be positive, got %v", interval))
	}
	return &Scheduler{
		interval:    interval,
		probability: probability,
		rng:         rng,
		onFire:      onFire,
		done:        make(chan struct{}),
		exited:      make(chan struct{}),
	}
}

// Start launches the timer. Starting twice, or starting a stopped scheduler,
// does nothing.
func (s *Scheduler) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.exited)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick rolls the dice once and reports whether onFire was called.
func (s *Scheduler) tick() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stopped {
		return false
	}
	s.ticks++
	if s.rng.Float64() >= s.probability {
		return false
	}
	s.fired++
	s.onFire()
	return true
}

// Stop cancels the scheduler and waits for its timer goroutine to exit. Stop
// is idempotent. It must not be called from onFire.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	if s.stopped {
		s.mutex.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	started := s.started
	s.mutex.Unlock()
	if started {
		<-s.exited
	}
}

func (s *Scheduler) Stopped() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stopped
}

// Ticks is the number of ticks handled so far.
func (s *Scheduler) Ticks() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ticks
}

// Fired is the number of times onFire has been called.
func (s *Scheduler) Fired() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.fired
}
