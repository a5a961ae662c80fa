package journey

import "github.com/tukoalluca/NomadRoute/internal/geo"

// Mode is the transport mode of a single leg.
type Mode string

const (
	ModeWalk     Mode = "walk"
	ModeBike     Mode = "bike"
	ModeCar      Mode = "car"
	ModeBus      Mode = "bus"
	ModeTrain    Mode = "train"
	ModePlane    Mode = "plane"
	ModeTeleport Mode = "teleport"
)

// Leg is one mode-homogeneous segment of a journey. Legs are immutable
// once constructed; a leg with fewer than two points is treated as
// already arrived.
type Leg struct {
	Mode     Mode        `yaml:"mode"`
	Path     []geo.Point `yaml:"path"`
	FromName string      `yaml:"from,omitempty"`
	ToName   string      `yaml:"to,omitempty"`
}

// Journey is an ordered sequence of legs; insertion order is travel order.
// An empty journey is a valid no-op input.
type Journey struct {
	Name string `yaml:"name,omitempty"`
	Legs []Leg  `yaml:"legs"`
}

// Start returns the first point of the journey, or false if the journey
// has no legs with points.
func (j Journey) Start() (geo.Point, bool) {
	for _, l := range j.Legs {
		if len(l.Path) > 0 {
			return l.Path[0], true
		}
	}
	return geo.Point{}, false
}
