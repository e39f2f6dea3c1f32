package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive report dashboard over HTTP",
	Long: `Start the HTTP dashboard. Endpoints:
  GET /                                 player index
  GET /health
  GET /api/players                      players and seasons as JSON
  GET /players/{player}?season=         metrics page with charts
  GET /players/{player}/charts          chart page
  GET /players/{player}/report.json     report as JSON
  GET /players/{player}/download        CSV attachment (?index=true, ?format=xlsx)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, "+`":8050"`+")")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stdout, "Dashboard on http://%s (Ctrl-C to stop)\n", displayAddr(addr))
	if err := server.New(newGenerator(), logger).ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
