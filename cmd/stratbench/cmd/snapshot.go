package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/stratbench/stratbench/indicators"
	"github.com/stratbench/stratbench/market"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <candles.csv>",
	Short: "Print the latest indicator values for a candle series",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

var snapshotWindow int

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().IntVarP(&snapshotWindow, "window", "w", market.DefaultRetention, "trailing candle window")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	candles, _, err := market.LoadCSV(args[0])
	if err != nil {
		return err
	}
	if snapshotWindow > 0 && len(candles) > snapshotWindow {
		candles = candles[len(candles)-snapshotWindow:]
	}

	cp := indicators.NewComputer(nil)
	snap := cp.Snapshot(candles)
	if len(snap) == 0 {
		return fmt.Errorf("not enough candles for any indicator (%d bars)", len(candles))
	}

	fmt.Printf("bars %d, last close %s\n\n",
		len(candles), candles[len(candles)-1].Time.Format("2006-01-02 15:04"))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Indicator", "Value")
	for _, row := range indicators.SortedSnapshot(snap) {
		table.Append(row[0], row[1])
	}
	table.Render()
	return nil
}
