package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/aggregator"
	"github.com/pable/go-player-report/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend <player>",
	Short: "Chronological expected vs actual goals for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	res, err := newGenerator().Generate(cmd.Context(), selection(args[0]))
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if res.Report.Matches == 0 {
		fmt.Println("no matches found")
		return nil
	}

	report.PrintHeader(os.Stdout, res.Report, res.Season)
	report.PrintTrendTable(os.Stdout, aggregator.Trend(res.Report))
	return nil
}
