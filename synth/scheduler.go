package synth

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickInterval is the control-rate period, roughly 200 Hz.
const DefaultTickInterval = 5 * time.Millisecond

// Scheduler drives Engine.Tick on a fixed period from a dedicated goroutine,
// independent of audio-buffer timing and of UI event timing. The loop tracks
// an absolute deadline so individual late wakeups do not accumulate drift;
// when it falls more than two periods behind it re-anchors instead of
// bursting catch-up ticks.
type Scheduler struct {
	engine   *Engine
	interval time.Duration

	nextDeadline time.Time
	tickCount    atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewScheduler creates a scheduler for an engine. A non-positive interval
// falls back to the default control-rate period.
func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{
		engine:   engine,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool { return s.running.Load() }

// TickCount returns the number of ticks executed since Start.
func (s *Scheduler) TickCount() uint64 { return s.tickCount.Load() }

// Start launches the tick loop. Starting an already-running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		go s.loop()
	}
}

// Stop halts the loop and waits for it to exit. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}
	})
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	dt := s.interval.Seconds()
	s.nextDeadline = time.Now().Add(s.interval)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-timer.C:
		}

		s.engine.Tick(dt)
		s.tickCount.Add(1)

		now := time.Now()
		s.nextDeadline = s.nextDeadline.Add(s.interval)
		if now.Sub(s.nextDeadline) > 2*s.interval {
			s.nextDeadline = now.Add(s.interval)
		}
		sleep := s.nextDeadline.Sub(now)
		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}
