package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/chart"
)

var chartsOut string

var chartsCmd = &cobra.Command{
	Use:   "charts <player>",
	Short: "Write the expected-vs-actual and goals-by-opponent charts to an HTML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharts,
}

func init() {
	chartsCmd.Flags().StringVarP(&chartsOut, "out", "o", "", "output file (default {player}_charts_{season}.html)")
}

func runCharts(cmd *cobra.Command, args []string) error {
	res, err := newGenerator().Generate(cmd.Context(), selection(args[0]))
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	path := chartsOut
	if path == "" {
		path = fmt.Sprintf("%s_charts_%d.html", res.Player, res.Season)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := chart.Render(f, res.Report, res.Season); err != nil {
		f.Close()
		return fmt.Errorf("render charts: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	return nil
}
