package animate

import (
	"log"
	"time"

	"github.com/tukoalluca/NomadRoute/internal/geo"
	"github.com/tukoalluca/NomadRoute/internal/mapview"
	"github.com/tukoalluca/NomadRoute/internal/metrics"
)

// degenerateSegmentKm is the segment length below which duplicate path
// points are skipped without consuming step distance.
const degenerateSegmentKm = 1e-9

// cameraLead is how far along the current heading (0..1 toward the next
// path point) the camera center sits ahead of the marker.
const cameraLead = 0.3

// legAnimator advances one leg's marker frame by frame. It never reports
// errors; view publish failures are logged and the animation keeps going.
// Cancellation is observed through the session fence at the top of every
// frame, and completion (normal or superseded) is signalled by closing done.
type legAnimator struct {
	session *Session
	id      int64
	view    mapview.View
	metrics *metrics.Collector

	path  []geo.Point
	speed float64 // km per frame at full ease
	zoom  float64
	pitch float64

	pathIndex       int
	segmentFraction float64
	distanceCovered float64
	totalDistance   float64
	trail           []geo.Point

	done chan struct{}
}

func newLegAnimator(s *Session, id int64, view mapview.View, m *metrics.Collector, path []geo.Point, speed, zoom, pitch float64) *legAnimator {
	a := &legAnimator{
		session: s,
		id:      id,
		view:    view,
		metrics: m,
		path:    path,
		speed:   speed,
		zoom:    zoom,
		pitch:   pitch,
		done:    make(chan struct{}),
	}
	cum := geo.CumulativeDistances(path)
	if len(cum) > 0 {
		a.totalDistance = cum[len(cum)-1]
	}
	return a
}

// start kicks off the frame loop and returns a channel that closes when
// the leg completes or the run is superseded. Degenerate input (fewer
// than two points, non-positive speed, zero-length path) completes
// immediately without entering the loop; a stale run resolves without
// touching the view.
func (a *legAnimator) start() <-chan struct{} {
	if len(a.path) < 2 || a.speed <= 0 || a.totalDistance <= 0 {
		if len(a.path) > 0 && a.session.Current(a.id) {
			a.publishMarker(a.path[len(a.path)-1])
			a.publishTrail(a.path)
		}
		close(a.done)
		return a.done
	}
	a.trail = append(a.trail, a.path[0])
	a.session.scheduleFrame(a.id, a.frame)
	return a.done
}

func (a *legAnimator) frame() {
	if !a.session.Current(a.id) {
		close(a.done)
		return
	}
	start := time.Now()

	step := a.speed * a.easeFactor()

	// Duplicate or near-zero segments are crossed for free.
	for a.segmentLength() < degenerateSegmentKm {
		if a.advancePoint() {
			a.complete()
			return
		}
	}

	a.segmentFraction += step / a.segmentLength()
	for a.segmentFraction >= 1 {
		a.segmentFraction -= 1
		if a.advancePoint() {
			a.complete()
			return
		}
	}

	pos := geo.Lerp(a.path[a.pathIndex], a.path[a.pathIndex+1], a.segmentFraction)
	a.publishTrail(append(append([]geo.Point(nil), a.trail...), pos))
	a.publishMarker(pos)

	lead := geo.Lerp(pos, a.path[a.pathIndex+1], cameraLead)
	bearing := geo.Bearing(a.path[a.pathIndex], a.path[a.pathIndex+1])
	if err := a.view.SetCameraInstant(lead, a.zoom, a.pitch, bearing); err != nil {
		log.Printf("camera update error: %v", err)
	}

	if a.metrics != nil {
		a.metrics.FramesRendered.Inc()
		a.metrics.FrameDuration.Observe(time.Since(start).Seconds())
	}
	a.session.scheduleFrame(a.id, a.frame)
}

// easeFactor ramps 0.1 to 1.0 over the first 10% of total leg distance,
// holds at 1.0 through the middle, and ramps back down over the final 10%.
// Tying the ramp to geographic progress instead of elapsed frames keeps
// the deceleration anchored to the same place on the path at any frame rate.
func (a *legAnimator) easeFactor() float64 {
	p := 1.0
	if a.totalDistance > 0 {
		p = a.distanceCovered / a.totalDistance
	}
	switch {
	case p < 0.1:
		return 0.1 + 0.9*(p/0.1)
	case p > 0.9:
		f := 0.1 + 0.9*((1-p)/0.1)
		if f < 0.1 {
			f = 0.1
		}
		return f
	default:
		return 1.0
	}
}

func (a *legAnimator) segmentLength() float64 {
	return geo.DistanceKm(a.path[a.pathIndex], a.path[a.pathIndex+1])
}

// advancePoint moves to the next path point, growing the trail and the
// covered distance. Returns true when the path is exhausted.
func (a *legAnimator) advancePoint() bool {
	a.distanceCovered += a.segmentLength()
	a.pathIndex++
	a.trail = append(a.trail, a.path[a.pathIndex])
	return a.pathIndex >= len(a.path)-1
}

// complete snaps the marker to the final point, publishes the full path
// as the trail, and resolves.
func (a *legAnimator) complete() {
	last := a.path[len(a.path)-1]
	a.publishMarker(last)
	a.publishTrail(a.path)
	if a.metrics != nil {
		a.metrics.LegsCompleted.Inc()
	}
	close(a.done)
}

func (a *legAnimator) publishMarker(p geo.Point) {
	if err := a.view.PlaceMarker(p); err != nil {
		log.Printf("marker update error: %v", err)
	}
}

func (a *legAnimator) publishTrail(pts []geo.Point) {
	if err := a.view.SetActiveTrail(pts); err != nil {
		log.Printf("trail update error: %v", err)
	}
}
