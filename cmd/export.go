package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/dashboard"
	"github.com/pable/go-player-report/internal/export"
)

var (
	exportIndex  bool
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <player>",
	Short: "Export a player's match table as {player}_data_{season}.csv",
	Long: `Write the player's per-match table, with derived shooting accuracy, as CSV
(default) or an Excel workbook. The file is named {player}_data_{season}.csv
unless --out is given; --out - writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportIndex, "index", false, "include a leading unnamed row-number column")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path, or - for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	res, err := newGenerator().Generate(cmd.Context(), selection(args[0]))
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return writeExport(res, exportFormat, exportOut, export.Options{Index: exportIndex})
}

func writeExport(res *dashboard.Result, format, out string, opts export.Options) error {
	var write func(io.Writer) error
	switch format {
	case "csv":
		write = func(w io.Writer) error { return export.WriteCSV(w, res.Report.ExportRows, opts) }
	case "xlsx":
		write = func(w io.Writer) error { return export.WriteXLSX(w, res.Player, res.Report.ExportRows, opts) }
	default:
		return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
	}

	if out == "-" {
		return write(os.Stdout)
	}
	if out == "" {
		out = res.Filename("." + format)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(res.Report.ExportRows), out)
	return nil
}
