package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/config"
	"github.com/pable/go-player-report/internal/dashboard"
	"github.com/pable/go-player-report/internal/logging"
)

var (
	configPath string
	season     int
	verbose    bool
	logFormat  string

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "playerreport",
	Short: "Per-player match statistics reports",
	Long: `Load per-match statistics for a configured set of players from CSV files
and report scoring, shooting and venue metrics as tables, charts, exports or
an HTTP dashboard.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "playerreport.yaml", "path to YAML config (built-in defaults if absent)")
	rootCmd.PersistentFlags().IntVar(&season, "season", 0, "season label (defaults to the latest configured season)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log encoding on stderr: console or json")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(chartsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	var err error
	logger, err = newLogger(logFormat, os.Stderr, level)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Debug("config loaded",
		"path", configPath,
		"players", len(cfg.Players),
		"seasons", cfg.Seasons,
	)
	return nil
}

// newLogger builds the diagnostics logger for --log-format.
func newLogger(format string, w io.Writer, level logging.Level) (*logging.Logger, error) {
	switch format {
	case "console":
		return logging.NewConsoleTo(w, level), nil
	case "json":
		return logging.NewJSON(w, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want console or json)", format)
	}
}

func newGenerator() *dashboard.Generator {
	return dashboard.NewGenerator(cfg, logger)
}

// selection picks player in the season given by --season.
func selection(player string) dashboard.Selection {
	return dashboard.Selection{Player: player, Season: season}
}
