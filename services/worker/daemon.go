package worker

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"
)

// DaemonConfig drives scheduled operation
type DaemonConfig struct {
	// ScrapeSchedule is a cron expression for full ingestion batches
	ScrapeSchedule string
	// SweepSchedule is a cron expression for the expiry sweep
	SweepSchedule string
	// MetricsAddr is the Prometheus listen address; empty disables the
	// endpoint
	MetricsAddr string
}

// StartDaemon runs ingestion batches and expiry sweeps on their cron
// schedules until the context is cancelled. It blocks; on shutdown it
// waits for jobs already running to finish.
func (w *Worker) StartDaemon(ctx context.Context, cfg DaemonConfig) error {
	c := cron.New()

	if _, err := c.AddFunc(cfg.ScrapeSchedule, func() {
		outcomes := w.RunAll(ctx)
		failed := 0
		for _, o := range outcomes {
			if o.Failed() {
				failed++
			}
		}
		w.log.Info().
			Int("chains", len(outcomes)).
			Int("failed", failed).
			Msg("Scheduled batch finished")
	}); err != nil {
		return apperr.NewConfiguration("invalid scrape schedule", err)
	}

	if _, err := c.AddFunc(cfg.SweepSchedule, func() {
		_, _ = w.RunSweep(ctx)
	}); err != nil {
		return apperr.NewConfiguration("invalid sweep schedule", err)
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				w.log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	c.Start()
	w.log.Info().
		Str("scrape_schedule", cfg.ScrapeSchedule).
		Str("sweep_schedule", cfg.SweepSchedule).
		Msg("Daemon started")

	<-ctx.Done()
	w.log.Info().Msg("Shutting down, waiting for running jobs")

	// Stop returns a context that completes once running jobs drain
	<-c.Stop().Done()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	w.log.Info().Msg("Daemon stopped")
	return nil
}
