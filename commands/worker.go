package commands

import (
	"github.com/spf13/cobra"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/scraper"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the scheduled ingestion daemon",
	Long: `Runs ingestion batches on SCRAPE_SCHEDULE and expiry sweeps on
SWEEP_SCHEDULE until interrupted, serving Prometheus metrics on
METRICS_ADDR.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		db, err := openStorage()
		if err != nil {
			return err
		}
		deps, cleanup := buildDeps(db, true)
		defer cleanup()

		reg := scraper.BuildAdapters(cfg, deps)
		w := worker.NewWorker(worker.FromRegistry(reg),
			worker.Deps{Tracker: db, Sweeper: db, Feed: deps.Feed},
			worker.Options{Concurrency: cfg.Concurrency})

		return w.StartDaemon(ctx, worker.DaemonConfig{
			ScrapeSchedule: cfg.ScrapeSchedule,
			SweepSchedule:  cfg.SweepSchedule,
			MetricsAddr:    cfg.MetricsAddr,
		})
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
