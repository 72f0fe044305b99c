package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/scraper"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List the registered retailer chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup := buildDeps(scraper.NewDryRunStore(), false)
		defer cleanup()

		reg := scraper.BuildAdapters(cfg, deps)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CHAIN\tNAME\tPRICING\tSTRATEGY\tCATEGORIES")
		for _, a := range reg.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
				a.Chain(), a.DisplayName(), a.Mode(), a.StrategyName(), len(a.Categories()))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(chainsCmd)
}
