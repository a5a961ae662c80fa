package animate

import (
	"sync"
	"time"

	"github.com/tukoalluca/NomadRoute/internal/geo"
)

// manualScheduler queues frame callbacks and fires them only when the
// test pumps it, so animations run deterministically on the test goroutine.
type manualScheduler struct {
	mu       sync.Mutex
	queue    []func()
	canceled int
}

type manualHandle int

func (s *manualScheduler) ScheduleNextFrame(fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
	return manualHandle(len(s.queue))
}

func (s *manualScheduler) CancelScheduled(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canceled++
	s.queue = nil
}

// pump fires pending callbacks until none remain or the limit is hit.
// Returns the number of frames fired.
func (s *manualScheduler) pump(limit int) int {
	fired := 0
	for fired < limit {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return fired
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
		fired++
	}
	return fired
}

// viewCall records one mutation of the fake map view.
type viewCall struct {
	op     string
	point  geo.Point
	points []geo.Point
	trails [][]geo.Point
	zoom   float64
	pitch  float64
	glyph  string
	text   string
}

// fakeView records every mutation in order. failOn makes the named
// operation return an error.
type fakeView struct {
	mu     sync.Mutex
	calls  []viewCall
	failOn string
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func (v *fakeView) record(c viewCall) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failOn != "" && v.failOn == c.op {
		return fakeErr("fake " + c.op + " failure")
	}
	v.calls = append(v.calls, c)
	return nil
}

func (v *fakeView) SetCameraInstant(center geo.Point, zoom, pitch, bearing float64) error {
	return v.record(viewCall{op: "camera", point: center, zoom: zoom, pitch: pitch})
}

func (v *fakeView) FlyCamera(center geo.Point, zoom, pitch, bearing, speedHint float64) error {
	return v.record(viewCall{op: "fly", point: center, zoom: zoom, pitch: pitch})
}

func (v *fakeView) SetActiveTrail(pts []geo.Point) error {
	cp := append([]geo.Point(nil), pts...)
	return v.record(viewCall{op: "activeTrail", points: cp})
}

func (v *fakeView) SetCompletedTrail(trails [][]geo.Point) error {
	cp := make([][]geo.Point, len(trails))
	for i, t := range trails {
		cp[i] = append([]geo.Point(nil), t...)
	}
	return v.record(viewCall{op: "completedTrail", trails: cp})
}

func (v *fakeView) PlaceMarker(p geo.Point) error {
	return v.record(viewCall{op: "marker", point: p})
}

func (v *fakeView) SetMarkerGlyph(glyph string) error {
	return v.record(viewCall{op: "glyph", glyph: glyph})
}

func (v *fakeView) ShowLabel(text string) error {
	return v.record(viewCall{op: "showLabel", text: text})
}

func (v *fakeView) HideLabel() error {
	return v.record(viewCall{op: "hideLabel"})
}

func (v *fakeView) callsOf(op string) []viewCall {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []viewCall
	for _, c := range v.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (v *fakeView) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.calls)
}

// newTestDirector wires a director to the fakes with sleeps disabled.
func newTestDirector(view *fakeView, sched FrameScheduler) *Director {
	d := NewDirector(view, view, sched, nil, 1.0, time.Millisecond, time.Millisecond)
	d.sleep = func(time.Duration) {}
	return d
}
