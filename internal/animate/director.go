package animate

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tukoalluca/NomadRoute/internal/geo"
	"github.com/tukoalluca/NomadRoute/internal/journey"
	"github.com/tukoalluca/NomadRoute/internal/mapview"
	"github.com/tukoalluca/NomadRoute/internal/metrics"
)

// errSuperseded aborts a run's sequence silently: a superseded run must
// never call a newer run's callbacks or mutate shared view state.
var errSuperseded = errors.New("run superseded")

// establishingZoomOut is subtracted from the first leg's target zoom for
// the opening shot.
const establishingZoomOut = 1.5

// planeArcSamples is how many points a two-point plane leg is expanded to
// along the great circle before animating.
const planeArcSamples = 64

// Callbacks reports run progress back to the caller. OnError is optional.
type Callbacks struct {
	OnComplete func()
	OnLegStart func(index int)
	OnError    func(error)
}

// Director turns a declarative journey into the full cinematic sequence:
// opening shot, then per leg a camera fly, a settle pause, the frame-by-frame
// leg animation, and an arrival label, then the finale. One journey animates
// at a time; starting a new run supersedes the previous one through the
// session fence.
type Director struct {
	view     mapview.View
	narrator mapview.Narrator // nil disables labels
	session  *Session
	metrics  *metrics.Collector

	speedMultiplier float64
	labelRead       time.Duration
	cameraSettle    time.Duration

	// sleep is swapped out by tests to run the sequence synchronously.
	sleep func(time.Duration)
}

func NewDirector(view mapview.View, narrator mapview.Narrator, sched FrameScheduler, m *metrics.Collector, speedMultiplier float64, labelRead, cameraSettle time.Duration) *Director {
	if speedMultiplier <= 0 {
		speedMultiplier = 1.0
	}
	return &Director{
		view:            view,
		narrator:        narrator,
		session:         NewSession(sched),
		metrics:         m,
		speedMultiplier: speedMultiplier,
		labelRead:       labelRead,
		cameraSettle:    cameraSettle,
		sleep:           time.Sleep,
	}
}

// Start begins animating j asynchronously, superseding any active run.
// Profile overrides in profiles shadow the built-in mode table.
func (d *Director) Start(j journey.Journey, profiles map[journey.Mode]journey.Profile, cb Callbacks) {
	d.session.Stop()
	id := d.session.Start()
	// Capture the expiry channel before the run goroutine exists, so a
	// racing Stop+Start can never hand this run a newer run's channel.
	expired := d.session.Expired()
	if d.metrics != nil {
		d.metrics.RunsStarted.Inc()
	}
	go d.run(id, expired, j, profiles, cb)
}

// Stop cancels any active run. Idempotent.
func (d *Director) Stop() {
	d.session.Stop()
}

func (d *Director) run(id int64, expired <-chan struct{}, j journey.Journey, profiles map[journey.Mode]journey.Profile, cb Callbacks) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("journey animation panic: %v", r)
			}
		}()
		return d.sequence(id, expired, j, profiles, cb)
	}()
	if err == nil {
		return
	}
	if errors.Is(err, errSuperseded) {
		if d.metrics != nil {
			d.metrics.RunsSuperseded.Inc()
		}
		return
	}
	// Stale runs swallow errors silently.
	if !d.session.Current(id) {
		return
	}
	log.Printf("run %d failed: %v", id, err)
	d.session.Stop()
	if d.metrics != nil {
		d.metrics.RunsFailed.Inc()
	}
	if cb.OnError != nil {
		cb.OnError(err)
	}
}

func (d *Director) sequence(id int64, expired <-chan struct{}, j journey.Journey, profiles map[journey.Mode]journey.Profile, cb Callbacks) error {
	if len(j.Legs) == 0 {
		if !d.session.Current(id) {
			return errSuperseded
		}
		if cb.OnComplete != nil {
			cb.OnComplete()
		}
		return nil
	}

	legs := make([]journey.Leg, len(j.Legs))
	for i, leg := range j.Legs {
		legs[i] = resolveLegPath(leg)
	}

	if err := d.opening(id, j, legs, profiles); err != nil {
		return err
	}

	var completed [][]geo.Point
	for i, leg := range legs {
		if !d.session.Current(id) {
			return errSuperseded
		}
		prof := journey.ResolveProfile(leg.Mode, profiles)
		log.Printf("run %d: leg %d/%d (%s)", id, i+1, len(legs), leg.Mode)
		if cb.OnLegStart != nil {
			cb.OnLegStart(i)
		}
		if d.metrics != nil {
			d.metrics.LegsStarted.Inc()
		}

		if err := d.approachLeg(id, leg, prof); err != nil {
			return err
		}

		// The run-start expiry channel releases the wait if Stop cancels
		// the frame loop before its next callback can observe staleness.
		select {
		case <-newLegAnimator(d.session, id, d.view, d.metrics, leg.Path, prof.SpeedKm*d.speedMultiplier, prof.Zoom, prof.Pitch).start():
		case <-expired:
		}
		if !d.session.Current(id) {
			return errSuperseded
		}

		completed = append(completed, leg.Path)
		if err := d.view.SetActiveTrail(nil); err != nil {
			return fmt.Errorf("clear active trail: %w", err)
		}
		if err := d.view.SetCompletedTrail(completed); err != nil {
			return fmt.Errorf("commit trail: %w", err)
		}
		if err := d.narrate(id, leg.ToName); err != nil {
			return err
		}
	}

	if !d.session.Current(id) {
		return errSuperseded
	}
	if d.metrics != nil {
		d.metrics.RunsCompleted.Inc()
	}
	if cb.OnComplete != nil {
		cb.OnComplete()
	}
	return nil
}

// opening places the marker at the journey start, clears both trail
// layers, sets the establishing shot, and narrates the starting place.
func (d *Director) opening(id int64, j journey.Journey, legs []journey.Leg, profiles map[journey.Mode]journey.Profile) error {
	if !d.session.Current(id) {
		return errSuperseded
	}
	start, ok := j.Start()
	if !ok {
		return nil
	}
	first := legs[0]
	prof := journey.ResolveProfile(first.Mode, profiles)
	if err := d.view.SetMarkerGlyph(prof.Glyph); err != nil {
		return fmt.Errorf("opening glyph: %w", err)
	}
	if err := d.view.PlaceMarker(start); err != nil {
		return fmt.Errorf("opening marker: %w", err)
	}
	if err := d.view.SetActiveTrail(nil); err != nil {
		return fmt.Errorf("opening trail reset: %w", err)
	}
	if err := d.view.SetCompletedTrail(nil); err != nil {
		return fmt.Errorf("opening trail reset: %w", err)
	}
	if err := d.view.SetCameraInstant(start, prof.Zoom-establishingZoomOut, prof.Pitch, 0); err != nil {
		return fmt.Errorf("establishing shot: %w", err)
	}
	return d.narrate(id, first.FromName)
}

// approachLeg switches the marker glyph, flies the camera to the leg's
// first point, and pauses for it to settle.
func (d *Director) approachLeg(id int64, leg journey.Leg, prof journey.Profile) error {
	if !d.session.Current(id) {
		return errSuperseded
	}
	if err := d.view.SetMarkerGlyph(prof.Glyph); err != nil {
		return fmt.Errorf("leg glyph: %w", err)
	}
	if len(leg.Path) == 0 {
		return nil
	}
	if err := d.view.FlyCamera(leg.Path[0], prof.Zoom, prof.Pitch, 0, 1.0); err != nil {
		return fmt.Errorf("camera fly: %w", err)
	}
	d.sleep(d.cameraSettle)
	if !d.session.Current(id) {
		return errSuperseded
	}
	return nil
}

// narrate shows text for the read duration, then hides it. A missing
// narrator or empty text is a no-op.
func (d *Director) narrate(id int64, text string) error {
	if d.narrator == nil || text == "" {
		return nil
	}
	if !d.session.Current(id) {
		return errSuperseded
	}
	if err := d.narrator.ShowLabel(text); err != nil {
		return fmt.Errorf("show label: %w", err)
	}
	d.sleep(d.labelRead)
	if !d.session.Current(id) {
		return errSuperseded
	}
	if err := d.narrator.HideLabel(); err != nil {
		return fmt.Errorf("hide label: %w", err)
	}
	return nil
}

// resolveLegPath expands a two-point plane leg into a sampled great-circle
// arc so the animation follows the geodesic instead of the straight chord.
func resolveLegPath(leg journey.Leg) journey.Leg {
	if leg.Mode == journey.ModePlane && len(leg.Path) == 2 {
		leg.Path = geo.GreatCircleArc(leg.Path[0], leg.Path[1], planeArcSamples)
	}
	return leg
}
