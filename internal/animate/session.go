package animate

import (
	"sync"
	"sync/atomic"
)

// Session is the generation fence for animation runs. Every run captures
// the id returned by Start; any suspension point re-checks Current before
// touching shared view state and goes silent once superseded. Session also
// tracks the in-flight frame handle so invalidating a run cancels pending
// per-frame scheduling, and exposes an expiry channel so a run waiting on
// a cancelled frame loop is released instead of blocking forever.
type Session struct {
	gen   atomic.Int64
	sched FrameScheduler

	mu      sync.Mutex
	pending Handle
	expired chan struct{}
}

func NewSession(sched FrameScheduler) *Session {
	return &Session{sched: sched, expired: make(chan struct{})}
}

// Start bumps the generation and returns the new live id.
func (s *Session) Start() int64 {
	id := s.gen.Add(1)
	s.mu.Lock()
	s.expired = make(chan struct{})
	s.mu.Unlock()
	return id
}

// Stop invalidates every previously captured id, cancels any pending
// frame callback, and releases waiters on the expiry channel. Idempotent.
func (s *Session) Stop() {
	s.gen.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.sched.CancelScheduled(s.pending)
		s.pending = nil
	}
	select {
	case <-s.expired:
	default:
		close(s.expired)
	}
}

// Current reports whether id is still the live generation.
func (s *Session) Current(id int64) bool {
	return s.gen.Load() == id
}

// Expired returns a channel closed when the live generation is invalidated.
// Capture it right after Start; a fresh channel is installed per run.
func (s *Session) Expired() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

// scheduleFrame registers fn for the next frame, remembering the handle
// so Stop can cancel it. Stale ids schedule nothing, so a superseded run
// can never stomp the live run's pending handle.
func (s *Session) scheduleFrame(id int64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Load() != id {
		return
	}
	s.pending = s.sched.ScheduleNextFrame(fn)
}
