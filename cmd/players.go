package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List configured players, their match logs and the seasons",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(os.Stdout, "%-24s  %-8s  %s\n", "PLAYER", "STATUS", "FILE")
	fmt.Fprintf(os.Stdout, "%-24s  %-8s  %s\n", "────────────────────────", "────────", "────")
	for _, name := range cfg.PlayerNames() {
		path, _ := cfg.PlayerFile(name)
		status := "ok"
		if _, err := os.Stat(path); err != nil {
			status = "missing"
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-8s  %s\n", name, status, path)
	}
	fmt.Fprintf(os.Stdout, "\nSeasons: %v (default %d)\n", cfg.Seasons, cfg.DefaultSeason())
	return nil
}
