package mapview

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tukoalluca/NomadRoute/internal/geo"
)

// NATSView publishes map state as JSON frames over NATS so a front end
// can render them. One subject per concern under a journey-scoped prefix:
// nomad.<journey>.camera|marker|glyph|trail.active|trail.completed|label
type NATSView struct {
	nc          *nats.Conn
	prefix      string
	logSubjects bool
	metrics     ViewMetrics
}

// ViewMetrics receives publish outcomes. A nil ViewMetrics is allowed.
type ViewMetrics interface {
	FramePublishedInc()
	FramePublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSView(url, journeyName string, logSubjects bool, m ViewMetrics) (*NATSView, error) {
	nc, err := nats.Connect(url,
		nats.Name("nomadroute"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSView{
		nc:          nc,
		prefix:      fmt.Sprintf("nomad.%s", subjectToken(journeyName)),
		logSubjects: logSubjects,
		metrics:     m,
	}, nil
}

func (v *NATSView) Close() {
	if v.nc != nil {
		v.nc.Drain()
		v.nc.Close()
	}
}

type CameraFrame struct {
	Center    geo.Point `json:"center"`
	Zoom      float64   `json:"zoom"`
	Pitch     float64   `json:"pitch"`
	Bearing   float64   `json:"bearing"`
	Fly       bool      `json:"fly"`
	SpeedHint float64   `json:"speedHint,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type MarkerFrame struct {
	Position  geo.Point `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

type GlyphFrame struct {
	Glyph string `json:"glyph"`
}

type TrailFrame struct {
	Points    []geo.Point   `json:"points,omitempty"`
	Trails    [][]geo.Point `json:"trails,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type LabelFrame struct {
	Text    string `json:"text,omitempty"`
	Visible bool   `json:"visible"`
}

func (v *NATSView) SetCameraInstant(center geo.Point, zoom, pitch, bearing float64) error {
	return v.publish("camera", CameraFrame{Center: center, Zoom: zoom, Pitch: pitch, Bearing: bearing, Timestamp: time.Now()})
}

func (v *NATSView) FlyCamera(center geo.Point, zoom, pitch, bearing, speedHint float64) error {
	return v.publish("camera", CameraFrame{Center: center, Zoom: zoom, Pitch: pitch, Bearing: bearing, Fly: true, SpeedHint: speedHint, Timestamp: time.Now()})
}

func (v *NATSView) SetActiveTrail(pts []geo.Point) error {
	return v.publish("trail.active", TrailFrame{Points: pts, Timestamp: time.Now()})
}

func (v *NATSView) SetCompletedTrail(trails [][]geo.Point) error {
	return v.publish("trail.completed", TrailFrame{Trails: trails, Timestamp: time.Now()})
}

func (v *NATSView) PlaceMarker(p geo.Point) error {
	return v.publish("marker", MarkerFrame{Position: p, Timestamp: time.Now()})
}

func (v *NATSView) SetMarkerGlyph(glyph string) error {
	return v.publish("glyph", GlyphFrame{Glyph: glyph})
}

func (v *NATSView) ShowLabel(text string) error {
	return v.publish("label", LabelFrame{Text: text, Visible: true})
}

func (v *NATSView) HideLabel() error {
	return v.publish("label", LabelFrame{Visible: false})
}

func (v *NATSView) publish(topic string, msg any) error {
	subject := v.prefix + "." + topic
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if v.logSubjects {
		log.Printf("nats publish subject=%s", subject)
	}
	start := time.Now()
	err = v.nc.Publish(subject, b)
	if v.metrics != nil {
		v.metrics.PublishObserve(time.Since(start))
		if err != nil {
			v.metrics.FramePublishErrInc()
		} else {
			v.metrics.FramePublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
