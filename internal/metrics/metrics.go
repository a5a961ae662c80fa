package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	RunsStarted    prometheus.Counter
	RunsSuperseded prometheus.Counter
	RunsCompleted  prometheus.Counter
	RunsFailed     prometheus.Counter

	LegsStarted   prometheus.Counter
	LegsCompleted prometheus.Counter

	FramesRendered prometheus.Counter
	FrameDuration  prometheus.Histogram

	FramesPublished  prometheus.Counter
	FramePublishErrs prometheus.Counter
	NATSConnected    prometheus.Gauge
	PublishDuration  prometheus.Histogram

	SpeedMultiplier prometheus.Gauge
	FrameInterval   prometheus.Gauge // seconds
	LabelRead       prometheus.Gauge // seconds
}

func NewCollector(speedMultiplier float64, frameInterval, labelRead time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RunsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_runs_started_total",
			Help: "Total journey animation runs started.",
		}),
		RunsSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_runs_superseded_total",
			Help: "Total runs cancelled because a newer run started.",
		}),
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_runs_completed_total",
			Help: "Total runs that reached the finale.",
		}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_runs_failed_total",
			Help: "Total runs terminated by an orchestration error.",
		}),
		LegsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_legs_started_total",
			Help: "Total legs whose animation began.",
		}),
		LegsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_legs_completed_total",
			Help: "Total legs animated to their final point.",
		}),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_frames_rendered_total",
			Help: "Total animation frames processed.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nomadroute_frame_duration_seconds",
			Help:    "Duration of per-frame advancement computations.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		}),
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_frames_published_total",
			Help: "Total map view frames published to NATS.",
		}),
		FramePublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nomadroute_frame_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nomadroute_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nomadroute_publish_duration_seconds",
			Help:    "Duration to marshal and publish a map view frame.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		SpeedMultiplier: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nomadroute_speed_multiplier",
			Help: "Current animation speed multiplier.",
		}),
		FrameInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nomadroute_frame_interval_seconds",
			Help: "Frame scheduling interval in seconds.",
		}),
		LabelRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nomadroute_label_read_seconds",
			Help: "Narration label read duration in seconds.",
		}),
	}

	reg.MustRegister(
		c.RunsStarted, c.RunsSuperseded, c.RunsCompleted, c.RunsFailed,
		c.LegsStarted, c.LegsCompleted,
		c.FramesRendered, c.FrameDuration,
		c.FramesPublished, c.FramePublishErrs, c.NATSConnected, c.PublishDuration,
		c.SpeedMultiplier, c.FrameInterval, c.LabelRead,
	)

	c.SpeedMultiplier.Set(speedMultiplier)
	c.FrameInterval.Set(frameInterval.Seconds())
	c.LabelRead.Set(labelRead.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
