package mapview

import "github.com/tukoalluca/NomadRoute/internal/geo"

// View is the rendering surface the animation drives. Implementations own
// actual map drawing; the animation only pushes camera, marker, and trail
// state through it.
type View interface {
	// SetCameraInstant snaps the camera without a transition.
	SetCameraInstant(center geo.Point, zoom, pitch, bearing float64) error
	// FlyCamera requests an animated transition toward the target.
	// speedHint is a renderer-specific pacing hint (1.0 = default).
	FlyCamera(center geo.Point, zoom, pitch, bearing, speedHint float64) error
	// SetActiveTrail replaces the currently-animating leg's traveled geometry.
	SetActiveTrail(pts []geo.Point) error
	// SetCompletedTrail replaces the committed geometry of finished legs.
	SetCompletedTrail(trails [][]geo.Point) error
	// PlaceMarker moves the journey marker.
	PlaceMarker(p geo.Point) error
	// SetMarkerGlyph switches the marker's icon.
	SetMarkerGlyph(glyph string) error
}

// Narrator shows timed place labels alongside the animation.
type Narrator interface {
	ShowLabel(text string) error
	HideLabel() error
}
