package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/aggregator"
	"github.com/pable/go-player-report/internal/dashboard"
	"github.com/pable/go-player-report/internal/export"
	"github.com/pable/go-player-report/internal/model"
	"github.com/pable/go-player-report/internal/report"
	"github.com/pable/go-player-report/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a session over the configured players. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession holds the REPL state: the selected season and a lazily loaded
// scratch database for sql.
type shellSession struct {
	ctx    context.Context
	gen    *dashboard.Generator
	season int
	db     *storage.DB
}

func runShell(cmd *cobra.Command, _ []string) error {
	sess := &shellSession{ctx: cmd.Context(), gen: newGenerator(), season: season}
	if sess.season == 0 {
		sess.season = sess.gen.DefaultSeason()
	}
	defer sess.close()

	cGreeting.Println("playerreport shell")
	cMuted.Printf("season %d, %d players; type 'help' or 'exit'\n", sess.season, len(sess.gen.Players()))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("playerreport")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			sess.players()
		case "season":
			sess.setSeason(rest)
		case "report":
			sess.report(rest)
		case "trend":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: trend <player>")
				continue
			}
			sess.trend(rest)
		case "export":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: export <player>")
				continue
			}
			sess.export(rest)
		case "sql":
			sess.sql(rest)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players", "list configured players"},
		{"season [<year>]", "show or change the selected season"},
		{"report", "overview of every configured player"},
		{"report <player>", "full season report for one player"},
		{"trend <player>", "expected vs actual goals by date"},
		{"export <player>", "write {player}_data_{season}.csv"},
		{"sql", "per-player totals computed in SQL"},
		{"sql <query>", "query the match logs (see 'playerreport sql --help')"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *shellSession) close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *shellSession) generate(player string) (*dashboard.Result, bool) {
	res, err := s.gen.Generate(s.ctx, dashboard.Selection{Player: player, Season: s.season})
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return nil, false
	}
	return res, true
}

func (s *shellSession) players() {
	for _, name := range s.gen.Players() {
		fmt.Print("  ")
		cCmd.Println(name)
	}
}

func (s *shellSession) setSeason(arg string) {
	if arg == "" {
		fmt.Printf("season %d (available: %v)\n", s.season, s.gen.Seasons())
		return
	}
	y, err := strconv.Atoi(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "invalid season %q\n", arg)
		return
	}
	if !cfg.HasSeason(y) {
		cError.Fprintf(os.Stderr, "unknown season %d (available: %v)\n", y, s.gen.Seasons())
		return
	}
	s.season = y
	cMuted.Printf("season set to %d\n", y)
}

func (s *shellSession) report(player string) {
	if player != "" {
		if res, ok := s.generate(player); ok {
			report.PrintPlayerReport(os.Stdout, res.Report, res.Season)
		}
		return
	}
	var reps []model.PlayerReport
	for _, name := range s.gen.Players() {
		res, ok := s.generate(name)
		if !ok {
			continue
		}
		reps = append(reps, res.Report)
	}
	if len(reps) == 0 {
		return
	}
	fmt.Println()
	report.PrintOverview(os.Stdout, reps)
}

func (s *shellSession) trend(player string) {
	res, ok := s.generate(player)
	if !ok {
		return
	}
	cHeader.Fprintf(os.Stdout, "\n--- %s %d ---\n", res.Player, res.Season)
	report.PrintTrendTable(os.Stdout, aggregator.Trend(res.Report))
}

func (s *shellSession) export(player string) {
	res, ok := s.generate(player)
	if !ok {
		return
	}
	if err := writeExport(res, "csv", "", export.Options{}); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func (s *shellSession) sql(query string) {
	if s.db == nil {
		db, err := openScratchDB(s.ctx)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		s.db = db
	}
	var err error
	if query == "" {
		err = printSummary(s.ctx, s.db)
	} else {
		err = printQuery(s.ctx, s.db, query)
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
