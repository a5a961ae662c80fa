package journey

// Profile is the per-mode animation tuning: how far the marker moves per
// effort unit (km), the camera zoom/pitch held during the leg, and the
// marker glyph shown on the map.
type Profile struct {
	SpeedKm float64 `yaml:"speed_km"`
	Zoom    float64 `yaml:"zoom"`
	Pitch   float64 `yaml:"pitch"`
	Glyph   string  `yaml:"glyph"`
}

// defaultProfiles is the built-in mode table. Faster modes get a larger
// per-frame step and a wider camera.
var defaultProfiles = map[Mode]Profile{
	ModeWalk:     {SpeedKm: 0.02, Zoom: 15.5, Pitch: 55, Glyph: "walking"},
	ModeBike:     {SpeedKm: 0.05, Zoom: 14.5, Pitch: 50, Glyph: "bicycle"},
	ModeCar:      {SpeedKm: 0.35, Zoom: 12.0, Pitch: 45, Glyph: "car"},
	ModeBus:      {SpeedKm: 0.30, Zoom: 12.0, Pitch: 45, Glyph: "bus"},
	ModeTrain:    {SpeedKm: 1.2, Zoom: 10.0, Pitch: 40, Glyph: "train"},
	ModePlane:    {SpeedKm: 45.0, Zoom: 4.5, Pitch: 30, Glyph: "plane"},
	ModeTeleport: {SpeedKm: 1e9, Zoom: 10.0, Pitch: 0, Glyph: "star"},
}

// fallbackProfile is used when a leg carries a mode outside the table.
var fallbackProfile = Profile{SpeedKm: 0.35, Zoom: 12.0, Pitch: 45, Glyph: "marker"}

// ResolveProfile returns the profile for mode, preferring the caller's
// overrides, then the built-in table, then an explicit car-like fallback.
func ResolveProfile(mode Mode, overrides map[Mode]Profile) Profile {
	if p, ok := overrides[mode]; ok {
		return p
	}
	if p, ok := defaultProfiles[mode]; ok {
		return p
	}
	return fallbackProfile
}

// DefaultProfile returns the built-in profile for mode and whether the
// mode is known.
func DefaultProfile(mode Mode) (Profile, bool) {
	p, ok := defaultProfiles[mode]
	return p, ok
}
