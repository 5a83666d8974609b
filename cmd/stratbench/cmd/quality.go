package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/stratbench/stratbench/market"
)

var qualityCmd = &cobra.Command{
	Use:   "quality <candles.csv>",
	Short: "Check a candle CSV for gaps, anomalies and completeness",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuality,
}

var qualityTimeframe string

func init() {
	rootCmd.AddCommand(qualityCmd)
	qualityCmd.Flags().StringVarP(&qualityTimeframe, "timeframe", "t", "", "bar timeframe (overrides config)")
}

func runQuality(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if qualityTimeframe != "" {
		cfg.Data.Timeframe = qualityTimeframe
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	candles, stats, err := market.LoadCSV(args[0])
	if err != nil {
		return err
	}

	r := market.CheckSeries(candles, cfg.Timeframe(), cfg.Quality)

	verdict := "SUITABLE"
	if !r.SuitableForBacktest {
		verdict = "UNSUITABLE: " + r.Reason
	}
	fmt.Printf("file     %s (%d rows, %d bad, %d duplicates)\n",
		args[0], stats.Rows, stats.BadLines, stats.Duplicates)
	fmt.Printf("bars     %d  invalid %d  out-of-order %d  anomalies %d\n",
		r.Bars, r.InvalidBars, r.OutOfOrderBars, r.AnomalyCount)
	fmt.Printf("complete %.1f%%\n", r.CompletenessScore*100)
	fmt.Printf("verdict  %s\n", verdict)

	if len(r.Gaps) > 0 {
		fmt.Println()
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("After", "Before", "Missing Bars")
		for _, g := range r.Gaps {
			table.Append(
				g.After.Format(time.RFC3339),
				g.Before.Format(time.RFC3339),
				fmt.Sprintf("%d", g.Missing),
			)
		}
		table.Render()
	}
	return nil
}
