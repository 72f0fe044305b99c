package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Clear promotions whose advertised end date has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		db, err := openStorage()
		if err != nil {
			return err
		}

		cleared, err := db.SweepExpired(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d expired promotions\n", cleared)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
