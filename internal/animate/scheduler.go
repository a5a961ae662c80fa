package animate

import "time"

// Handle identifies one pending frame callback with its scheduler.
type Handle any

// FrameScheduler is the per-frame pacing primitive. At most one callback
// is pending at a time; the animation schedules the next frame only from
// within the previous one.
type FrameScheduler interface {
	ScheduleNextFrame(fn func()) Handle
	CancelScheduled(h Handle)
}

// TimerScheduler paces frames on wall-clock timers at a fixed interval.
type TimerScheduler struct {
	Interval time.Duration
}

func (s *TimerScheduler) ScheduleNextFrame(fn func()) Handle {
	return time.AfterFunc(s.Interval, fn)
}

func (s *TimerScheduler) CancelScheduled(h Handle) {
	if t, ok := h.(*time.Timer); ok {
		t.Stop()
	}
}
