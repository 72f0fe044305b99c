package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/storage"
)

var pricesCmd = &cobra.Command{
	Use:   "prices <product-id>",
	Short: "Show a product's current prices through the freshness guard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("product id must be a number, got %q", args[0])
		}

		db, err := openStorage()
		if err != nil {
			return err
		}

		prices, err := db.PricesForProduct(context.Background(), uint(productID), time.Now(), cfg.StaleAfter)
		if err != nil {
			return err
		}
		if len(prices) == 0 {
			fmt.Println("No prices recorded for this product")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STORE\tREGULAR\tPROMO\tPROMO ENDS\tMEMBER\tLAST SEEN\tSTALE")
		for _, p := range prices {
			store := "chain-wide"
			if p.StoreID != storage.ChainWideStoreID {
				store = strconv.FormatUint(uint64(p.StoreID), 10)
			}
			promo := "-"
			if p.PromoPrice != nil {
				promo = p.PromoPrice.StringFixed(2)
			}
			ends := "-"
			if p.PromoEndsAt != nil {
				ends = p.PromoEndsAt.Format("2006-01-02")
			}
			stale := ""
			if p.Stale {
				stale = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\t%s\t%s\n",
				store, p.RegularPrice.StringFixed(2), promo, ends,
				p.MemberOnly, p.LastSeenAt.Format(time.RFC3339), stale)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(pricesCmd)
}
