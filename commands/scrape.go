package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/scraper"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/worker"
)

var (
	scrapeAll         bool
	scrapeConcurrency int
	scrapeDryRun      bool
	scrapeStore       string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [chain...]",
	Short: "Run ingestion for the named chains",
	Long: `Scrapes the named chains (or every registered chain with --all),
normalizes and persists what they list, and sweeps promotions that are
no longer observed. With --dry-run nothing is written: records are
fetched, normalized, and logged only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !scrapeAll && len(args) == 0 {
			return fmt.Errorf("name at least one chain or pass --all")
		}

		ctx, cancel := signalContext()
		defer cancel()

		if scrapeDryRun {
			return runDry(ctx, args)
		}
		return runScrape(ctx, args)
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeAll, "all", false, "scrape every registered chain")
	scrapeCmd.Flags().IntVar(&scrapeConcurrency, "concurrency", 0, "chains scraped in parallel (default SCRAPE_CONCURRENCY)")
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "fetch and normalize without writing to the database")
	scrapeCmd.Flags().StringVar(&scrapeStore, "store", "", "store external id to walk for per-store chains in dry-run mode")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(ctx context.Context, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	deps, cleanup := buildDeps(db, true)
	defer cleanup()

	reg := scraper.BuildAdapters(cfg, deps)

	chains := args
	if scrapeAll {
		chains = reg.Chains()
	}
	for _, chain := range chains {
		if _, err := reg.Get(chain); err != nil {
			return err
		}
	}

	concurrency := cfg.Concurrency
	if scrapeConcurrency > 0 {
		concurrency = scrapeConcurrency
	}

	w := worker.NewWorker(worker.FromRegistry(reg),
		worker.Deps{Tracker: db, Sweeper: db, Feed: deps.Feed},
		worker.Options{Concurrency: concurrency})

	outcomes := w.RunChains(ctx, chains)
	printOutcomes(outcomes)

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d chains did not complete", failed, len(outcomes))
	}
	return nil
}

// runDry exercises fetch and normalize against the live sources with an
// in-memory store, bypassing run tracking entirely
func runDry(ctx context.Context, args []string) error {
	dry := scraper.NewDryRunStore()
	deps, cleanup := buildDeps(dry, false)
	defer cleanup()

	reg := scraper.BuildAdapters(cfg, deps)

	chains := args
	if scrapeAll {
		chains = reg.Chains()
	}

	if scrapeStore != "" {
		for i, chain := range chains {
			dry.AddStore(storage.Store{
				ID:         uint(i + 1),
				Chain:      chain,
				ExternalID: scrapeStore,
				Name:       "Store " + scrapeStore,
			})
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAIN\tSTATUS\tTOTAL\tCHANGED\tFAILED")

	var firstErr error
	for _, chain := range chains {
		adapter, err := reg.Get(chain)
		if err != nil {
			return err
		}

		result := adapter.Run(ctx)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
			chain, result.Status, result.Counts.Total, result.Counts.Changed, result.Counts.Failed)
		if result.Err != nil && firstErr == nil {
			firstErr = result.Err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("Dry run saw %d distinct products, nothing written\n", dry.ProductCount())
	return firstErr
}

func printOutcomes(outcomes []worker.Outcome) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAIN\tSTATUS\tTOTAL\tCHANGED\tFAILED\tDURATION\tERROR")
	for _, o := range outcomes {
		errText := ""
		if o.Err != nil {
			errText = o.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			o.Chain, o.Status, o.Counts.Total, o.Counts.Changed, o.Counts.Failed,
			o.FinishedAt.Sub(o.StartedAt).Round(time.Second), errText)
	}
	tw.Flush()
}
