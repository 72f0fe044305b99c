package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AxelMcKenna/Liquorfy-sub000/config"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/headless"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/normalize"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/scraper"
	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
	"github.com/AxelMcKenna/Liquorfy-sub000/logger"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/cache"
	"github.com/AxelMcKenna/Liquorfy-sub000/services/feed"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "liquorfy",
	Short: "Liquor price ingestion pipeline for NZ retailer chains",
	Long: `Scrapes retailer chains for current liquor prices, normalizes them
into a common catalog, detects promotions, and keeps the price table
fresh with mark-and-sweep and expiry sweeps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is a development convenience; production runs on real env
		envErr := godotenv.Load()
		logger.Init()
		if envErr != nil {
			logger.Debug("No .env file found, using environment variables")
		}

		cfg = config.LoadConfig()
		return cfg.Validate()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received signal %v, shutting down", sig)
		cancel()
	}()

	return ctx, cancel
}

// openStorage connects to postgres and migrates the schema
func openStorage() (*storage.DB, error) {
	return storage.Open(cfg)
}

// buildDeps assembles the adapter collaborators. The returned cleanup
// closes whatever was opened; withFeed controls whether the Redis
// change feed is connected at all.
func buildDeps(store scraper.Storage, withFeed bool) (scraper.Deps, func()) {
	deps := scraper.Deps{
		Storage:    store,
		Normalizer: normalize.NewNormalizer(normalize.DefaultTables()),
		Cache:      cache.NewMemcacheService(cfg.MemcacheAddr),
		Renderer:   headless.NewChrome(headless.Options{RemoteURL: cfg.ChromeWSURL}),
	}

	cleanup := func() {}
	if withFeed && cfg.FeedEnabled {
		f := feed.NewRedisFeed(context.Background(), cfg.RedisAddr, cfg.RedisDB,
			cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
		deps.Feed = f
		cleanup = func() { _ = f.Close() }
	}
	return deps, cleanup
}
