// Package report renders player reports as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-player-report/internal/aggregator"
	"github.com/pable/go-player-report/internal/model"
	"github.com/pable/go-player-report/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintHeader prints a one-line banner for a player's season report.
func PrintHeader(w io.Writer, rep model.PlayerReport, season int) {
	fmt.Fprintf(w, "\nPlayer: %s  |  Season: %d  |  Matches: %d  |  Home/Away: %d/%d\n\n",
		rep.Player, season, rep.Matches, rep.HomeMatches, rep.AwayMatches)
}

// PrintOverview prints one summary row per player.
// Columns: PLAYER | GP | MIN | GLS | G/GP | xG | G-xG | AST | G+A/GP | SH | SOT | ACC%
func PrintOverview(w io.Writer, reps []model.PlayerReport) {
	table := newTable(w)
	table.Header("PLAYER", "GP", "MIN", "GLS", "G/GP", "xG", "G-xG", "AST", "G+A/GP", "SH", "SOT", "ACC%")
	for _, r := range reps {
		table.Append(
			r.Player,
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.TotalMinutes),
			strconv.Itoa(r.TotalGoals),
			r.AverageGoals.Format("%.2f"),
			fmt.Sprintf("%.2f", r.TotalExpectedGoals),
			fmt.Sprintf("%+.2f", r.GoalsMinusExpected()),
			strconv.Itoa(r.TotalAssists),
			r.AverageContributionPerGame.Format("%.2f"),
			strconv.Itoa(r.TotalShots),
			strconv.Itoa(r.TotalShotsOnTarget),
			r.AverageShootingAccuracy.Format("%.1f%%"),
		)
	}
	table.Render()
}

// Metric is one labelled aggregate of a report, formatted for display.
type Metric struct {
	Label string
	Value string
}

// Metrics returns every aggregate of rep in display order. Undefined
// averages read "no data".
func Metrics(rep model.PlayerReport) []Metric {
	return []Metric{
		{"Total Minutes Played", strconv.Itoa(rep.TotalMinutes)},
		{"Average Minutes Played", rep.AverageMinutes.String()},
		{"Total Goals", strconv.Itoa(rep.TotalGoals)},
		{"Average Goals", rep.AverageGoals.String()},
		{"Total Expected Goals (xG)", fmt.Sprintf("%.2f", rep.TotalExpectedGoals)},
		{"Average Expected Goals (xG)", rep.AverageExpectedGoals.String()},
		{"Average Goals (Home)", rep.AverageGoalsHome.String()},
		{"Average Goals (Away)", rep.AverageGoalsAway.String()},
		{"Total Assists", strconv.Itoa(rep.TotalAssists)},
		{"Average Assists", rep.AverageAssists.String()},
		{"Average Contribution per Game", rep.AverageContributionPerGame.String()},
		{"Total Shots", strconv.Itoa(rep.TotalShots)},
		{"Total Shots on Target", strconv.Itoa(rep.TotalShotsOnTarget)},
		{"Average Shooting Accuracy", rep.AverageShootingAccuracy.Format("%.2f%%")},
	}
}

// PrintMetrics prints Metrics(rep) as a two-column table.
func PrintMetrics(w io.Writer, rep model.PlayerReport) {
	table := newTable(w)
	table.Header("METRIC", "VALUE")
	for _, m := range Metrics(rep) {
		table.Append(m.Label, m.Value)
	}
	table.Render()
}

// PrintOpponentTable prints total goals per opponent, sorted by name.
func PrintOpponentTable(w io.Writer, totals []model.OpponentGoals) {
	table := newTable(w)
	table.Header("OPPONENT", "GLS")
	for _, t := range totals {
		table.Append(t.Opponent, strconv.Itoa(t.Goals))
	}
	table.Render()
}

// PrintMatchTable prints the per-match log in file order with derived
// shooting accuracy.
func PrintMatchTable(w io.Writer, rows []model.ExportRow) {
	table := newTable(w)
	table.Header("#", "DATE", "VENUE", "OPPONENT", "MIN", "GLS", "AST", "SH", "SOT", "xG", "ACC%")
	for _, row := range rows {
		r := row.Record
		table.Append(
			strconv.Itoa(row.Index),
			r.Date.Format(model.DateLayout),
			r.VenueLabel(),
			r.Opponent,
			strconv.Itoa(r.MinutesPlayed),
			strconv.Itoa(r.Goals),
			strconv.Itoa(r.Assists),
			strconv.Itoa(r.Shots),
			strconv.Itoa(r.ShotsOnTarget),
			fmt.Sprintf("%.2f", r.ExpectedGoals),
			fmt.Sprintf("%.1f%%", row.ShootingAccuracy),
		)
	}
	table.Render()
}

// PrintTrendTable prints xG against goals per match date with running totals.
// Columns: DATE | xG | GLS | CUM_xG | CUM_GLS | DIFF
func PrintTrendTable(w io.Writer, steps []aggregator.RunningTotal) {
	table := newTable(w)
	table.Header("DATE", "xG", "GLS", "CUM_xG", "CUM_GLS", "DIFF")
	for _, s := range steps {
		table.Append(
			s.Date.Format(model.DateLayout),
			fmt.Sprintf("%.2f", s.ExpectedGoals),
			strconv.Itoa(s.Goals),
			fmt.Sprintf("%.2f", s.CumExpectedGoals),
			strconv.Itoa(s.CumGoals),
			fmt.Sprintf("%+.2f", float64(s.CumGoals)-s.CumExpectedGoals),
		)
	}
	table.Render()
}

// PrintStoredSummary prints one row per player loaded into the scratch
// database.
// Columns: PLAYER | GP | HOME | MIN | GLS | AST | SH | SOT | xG | TOP OPP
func PrintStoredSummary(w io.Writer, sums []storage.Summary) {
	table := newTable(w)
	table.Header("PLAYER", "GP", "HOME", "MIN", "GLS", "AST", "SH", "SOT", "xG", "TOP OPP")
	for _, s := range sums {
		top := "-"
		if s.TopOpponent.Goals > 0 {
			top = fmt.Sprintf("%s (%d)", s.TopOpponent.Opponent, s.TopOpponent.Goals)
		}
		table.Append(
			s.Player,
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.HomeMatches),
			strconv.Itoa(s.Minutes),
			strconv.Itoa(s.Goals),
			strconv.Itoa(s.Assists),
			strconv.Itoa(s.Shots),
			strconv.Itoa(s.ShotsOnTarget),
			fmt.Sprintf("%.2f", s.ExpectedGoals),
			top,
		)
	}
	table.Render()
}

// PrintPlayerReport prints the full report for one player: banner, metrics,
// goals by opponent and the match log.
func PrintPlayerReport(w io.Writer, rep model.PlayerReport, season int) {
	PrintHeader(w, rep, season)
	PrintMetrics(w, rep)
	if rep.Matches == 0 {
		fmt.Fprintln(w, "\n(no matches)")
		return
	}
	fmt.Fprintln(w, "\nGoals by opponent:")
	PrintOpponentTable(w, rep.OpponentTotals())
	fmt.Fprintln(w, "\nMatches:")
	PrintMatchTable(w, rep.ExportRows)
}
