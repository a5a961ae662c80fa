package animate

import "testing"

func TestSessionGenerationFence(t *testing.T) {
	sched := &manualScheduler{}
	s := NewSession(sched)

	a := s.Start()
	if !s.Current(a) {
		t.Fatal("fresh id should be current")
	}
	b := s.Start()
	if s.Current(a) {
		t.Error("superseded id still current")
	}
	if !s.Current(b) {
		t.Error("newest id not current")
	}
	if b <= a {
		t.Errorf("ids not increasing: %d then %d", a, b)
	}
}

func TestSessionStopInvalidatesWithoutNewRun(t *testing.T) {
	sched := &manualScheduler{}
	s := NewSession(sched)
	id := s.Start()
	s.Stop()
	if s.Current(id) {
		t.Error("stop should invalidate the live id")
	}
	// Idempotent.
	s.Stop()
	s.Stop()
	if s.Current(id) {
		t.Error("repeated stop should keep the id stale")
	}
}

func TestSessionExpiredChannel(t *testing.T) {
	sched := &manualScheduler{}
	s := NewSession(sched)
	s.Start()
	exp := s.Expired()
	select {
	case <-exp:
		t.Fatal("expired before stop")
	default:
	}
	s.Stop()
	select {
	case <-exp:
	default:
		t.Fatal("expired channel not closed by stop")
	}
	// A new run gets a fresh channel.
	s.Start()
	select {
	case <-s.Expired():
		t.Fatal("new run's expired channel already closed")
	default:
	}
}

func TestStaleIDCannotSchedule(t *testing.T) {
	sched := &manualScheduler{}
	s := NewSession(sched)
	stale := s.Start()
	s.Start()

	s.scheduleFrame(stale, func() { t.Error("stale frame ran") })
	if n := sched.pump(10); n != 0 {
		t.Errorf("stale id scheduled %d frames", n)
	}

	live := s.gen.Load()
	ran := false
	s.scheduleFrame(live, func() { ran = true })
	sched.pump(10)
	if !ran {
		t.Error("live id failed to schedule")
	}
}

func TestStopCancelsPendingFrame(t *testing.T) {
	sched := &manualScheduler{}
	s := NewSession(sched)
	id := s.Start()
	s.scheduleFrame(id, func() {})
	s.Stop()
	if sched.canceled != 1 {
		t.Errorf("canceled %d handles, want 1", sched.canceled)
	}
}
