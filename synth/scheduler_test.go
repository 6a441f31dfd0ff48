package synth

import (
	"testing"
	"time"
)

func TestSchedulerLifecycle(t *testing.T) {
	e := newTestEngine(t, nil)
	s := NewScheduler(e, time.Millisecond)
	if s.Running() {
		t.Fatalf("scheduler running before Start")
	}
	s.Start()
	if !s.Running() {
		t.Fatalf("scheduler not running after Start")
	}
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	if s.Running() {
		t.Fatalf("scheduler still running after Stop")
	}
	if got := s.TickCount(); got == 0 {
		t.Fatalf("no ticks executed in 50ms at a 1ms period")
	}
	count := s.TickCount()
	time.Sleep(10 * time.Millisecond)
	if got := s.TickCount(); got != count {
		t.Fatalf("ticks advanced after Stop: got=%d want=%d", got, count)
	}
}

func TestSchedulerTicksDriveVoices(t *testing.T) {
	e := newTestEngine(t, nil)
	slot := e.Trigger(0, 0.8)
	s := NewScheduler(e, time.Millisecond)
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if e.VoiceFrame(slot).Amplitude > 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("amplitude never rose under the running scheduler")
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	e := newTestEngine(t, nil)
	s := NewScheduler(e, time.Millisecond)
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSchedulerDoubleStartIsNoOp(t *testing.T) {
	e := newTestEngine(t, nil)
	s := NewScheduler(e, time.Millisecond)
	s.Start()
	s.Start()
	s.Stop()
}

func TestSchedulerIntervalFallback(t *testing.T) {
	e := newTestEngine(t, nil)
	if got := NewScheduler(e, 0).Interval(); got != DefaultTickInterval {
		t.Fatalf("interval got=%v want=%v", got, DefaultTickInterval)
	}
	if got := NewScheduler(e, 2*time.Millisecond).Interval(); got != 2*time.Millisecond {
		t.Fatalf("interval got=%v want=2ms", got)
	}
}
