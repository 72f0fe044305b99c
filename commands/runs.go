package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
)

var (
	runsLimit   int
	runsRunning bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [chain]",
	Short: "Show recent ingestion runs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStorage()
		if err != nil {
			return err
		}

		chain := ""
		if len(args) == 1 {
			chain = args[0]
		}

		var runs []storage.IngestionRun
		if runsRunning {
			// Rows stuck in running belong to live runs or crashed
			// processes; either way they deserve a look
			runs, err = db.RunningRuns(context.Background())
		} else {
			runs, err = db.RecentRuns(context.Background(), chain, runsLimit)
		}
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STARTED\tCHAIN\tSTATUS\tTOTAL\tCHANGED\tFAILED\tDURATION\tERROR")
		for _, r := range runs {
			duration := "-"
			if r.FinishedAt != nil {
				duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
			}
			errText := ""
			if r.Error != nil {
				errText = *r.Error
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				r.StartedAt.Format(time.RFC3339), r.Chain, r.Status,
				r.ItemsTotal, r.ItemsChanged, r.ItemsFailed, duration, errText)
		}
		return tw.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum rows to show")
	runsCmd.Flags().BoolVar(&runsRunning, "running", false, "show only runs still marked running, oldest first")
	rootCmd.AddCommand(runsCmd)
}
