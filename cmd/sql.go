package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/report"
	"github.com/pable/go-player-report/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql [<query>]",
	Short: "Run a SQL query over the configured match logs",
	Long: `Load every configured player's match log into an in-memory SQLite database
and print the query result as a table. Nothing is written to disk.
Without a query, print per-player totals computed in SQL.

Schema:
  players(name, source, match_count)
  matches(player, idx, match_date, minutes, goals, assists, shots,
    shots_on_target, xg, venue, opponent, shooting_accuracy)

venue is 1 for home and 0 for away; idx is the 1-based row in the source file.
Example: SELECT opponent, SUM(goals) FROM matches WHERE player = 'Yira Sor' GROUP BY opponent`,
	Args: cobra.ArbitraryArgs,
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	db, err := openScratchDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	if query == "" {
		return printSummary(cmd.Context(), db)
	}
	return printQuery(cmd.Context(), db, query)
}

func printSummary(ctx context.Context, db *storage.DB) error {
	sums, err := db.Summaries(ctx)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if len(sums) == 0 {
		fmt.Println("(no players loaded)")
		return nil
	}
	report.PrintStoredSummary(os.Stdout, sums)
	return nil
}

// openScratchDB loads every configured player that loads cleanly into a
// fresh in-memory database. Players whose logs fail to load are skipped with
// a warning.
func openScratchDB(ctx context.Context) (*storage.DB, error) {
	db, err := storage.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	gen := newGenerator()
	for _, name := range gen.Players() {
		res, err := gen.Generate(ctx, selection(name))
		if err != nil {
			logger.Warn("skipping player", "player", name, "err", err)
			continue
		}
		if err := db.InsertPlayerLog(ctx, res.Log); err != nil {
			db.Close()
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return db, nil
}

func printQuery(ctx context.Context, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(ctx, query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
