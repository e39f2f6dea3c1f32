package cmd

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/model"
	"github.com/pable/go-player-report/internal/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report [player...]",
	Short: "Season report for one or more players (all configured players if none given)",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "output format: table or json")
}

type reportJSON struct {
	Season int                `json:"season"`
	Report model.PlayerReport `json:"report"`
}

func runReport(cmd *cobra.Command, args []string) error {
	results, err := newGenerator().GenerateAll(cmd.Context(), args, season)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	switch reportFormat {
	case "json":
		out := make([]reportJSON, len(results))
		for i, r := range results {
			out[i] = reportJSON{Season: r.Season, Report: r.Report}
		}
		b, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(b))
		return nil
	case "table":
	default:
		return fmt.Errorf("unknown format %q (want table or json)", reportFormat)
	}

	if len(results) > 1 {
		reps := make([]model.PlayerReport, len(results))
		for i, r := range results {
			reps[i] = r.Report
		}
		fmt.Fprintln(os.Stdout, "\n=== Overview ===")
		report.PrintOverview(os.Stdout, reps)
	}
	for _, r := range results {
		report.PrintPlayerReport(os.Stdout, r.Report, r.Season)
	}
	return nil
}
