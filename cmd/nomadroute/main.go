package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/tukoalluca/NomadRoute/internal/animate"
	"github.com/tukoalluca/NomadRoute/internal/config"
	"github.com/tukoalluca/NomadRoute/internal/journey"
	"github.com/tukoalluca/NomadRoute/internal/mapview"
	"github.com/tukoalluca/NomadRoute/internal/metrics"
	"github.com/tukoalluca/NomadRoute/internal/store"
)

func main() {
	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	j, profiles, err := loadJourney(ctx, cfg)
	if err != nil {
		log.Fatalf("journey load error: %v", err)
	}
	log.Printf("journey %q: %d legs", j.Name, len(j.Legs))

	// Metrics setup
	var mcol *metrics.Collector
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector(cfg.SpeedMultiplier, cfg.FrameInterval, cfg.LabelRead)
		srv := mcol.Serve(cfg.MetricsAddr)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Map view over NATS
	view, err := mapview.NewNATSView(cfg.NATSURL, j.Name, cfg.LogNATSSubjects, wrapViewMetrics(mcol))
	if err != nil {
		log.Fatalf("nats error: %v", err)
	}
	defer view.Close()

	sched := &animate.TimerScheduler{Interval: cfg.FrameInterval}
	director := animate.NewDirector(view, view, sched, mcol, cfg.SpeedMultiplier, cfg.LabelRead, cfg.CameraSettle)

	done := make(chan struct{})
	director.Start(*j, profiles, animate.Callbacks{
		OnLegStart: func(i int) {
			log.Printf("leg %d/%d started", i+1, len(j.Legs))
		},
		OnComplete: func() {
			log.Printf("journey complete")
			close(done)
		},
		OnError: func(err error) {
			log.Printf("journey failed: %v", err)
			close(done)
		},
	})

	select {
	case <-done:
	case <-ctx.Done():
		director.Stop()
	}
	log.Println("shutdown complete")
}

// loadJourney reads the journey from a YAML file when JOURNEY_FILE is set,
// otherwise from the Postgres store by JOURNEY_ID.
func loadJourney(ctx context.Context, cfg *config.Config) (*journey.Journey, map[journey.Mode]journey.Profile, error) {
	if cfg.JourneyFile != "" {
		f, err := journey.ReadFile(cfg.JourneyFile)
		if err != nil {
			return nil, nil, err
		}
		return &f.Journey, f.Profiles, nil
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()
	if err := store.Ping(ctx, db); err != nil {
		return nil, nil, err
	}
	j, err := store.FetchJourney(ctx, db, cfg.JourneyID)
	if err != nil {
		return nil, nil, err
	}
	return j, nil, nil
}

// wrapViewMetrics adapts our Collector to the ViewMetrics interface.
func wrapViewMetrics(c *metrics.Collector) mapview.ViewMetrics {
	if c == nil {
		return nil
	}
	return &viewMetrics{c: c}
}

type viewMetrics struct{ c *metrics.Collector }

func (v *viewMetrics) FramePublishedInc()             { v.c.FramesPublished.Inc() }
func (v *viewMetrics) FramePublishErrInc()            { v.c.FramePublishErrs.Inc() }
func (v *viewMetrics) PublishObserve(d time.Duration) { v.c.PublishDuration.Observe(d.Seconds()) }
func (v *viewMetrics) NATSSetConnected(b bool) {
	if b {
		v.c.NATSConnected.Set(1)
	} else {
		v.c.NATSConnected.Set(0)
	}
}
