// Package aggregator turns a player's match log into a PlayerReport.
package aggregator

import (
	"sort"

	"github.com/pable/go-player-report/internal/model"
)

// Build computes every report metric from log. It never fails: an empty log
// (or an empty home/away partition) yields invalid Stats instead of zeros.
func Build(log model.PlayerLog) model.PlayerReport {
	n := len(log.Records)
	rep := model.PlayerReport{
		Player:               log.Player,
		Matches:              n,
		GoalsByOpponent:      make(map[string]int),
		PerRecordShootingAcc: make([]float64, 0, n),
		Timeseries:           make([]model.TimeseriesPoint, 0, n),
		ExportRows:           make([]model.ExportRow, 0, n),
	}

	var xgSum, contribSum, accSum float64
	var homeGoals, awayGoals int

	for i, r := range log.Records {
		rep.TotalMinutes += r.MinutesPlayed
		rep.TotalGoals += r.Goals
		rep.TotalAssists += r.Assists
		rep.TotalShots += r.Shots
		rep.TotalShotsOnTarget += r.ShotsOnTarget
		xgSum += r.ExpectedGoals
		contribSum += float64(r.Contribution())

		if r.Home {
			rep.HomeMatches++
			homeGoals += r.Goals
		} else {
			rep.AwayMatches++
			awayGoals += r.Goals
		}

		acc := r.ShootingAccuracy()
		accSum += acc
		rep.PerRecordShootingAcc = append(rep.PerRecordShootingAcc, acc)

		rep.GoalsByOpponent[r.Opponent] += r.Goals

		rep.Timeseries = append(rep.Timeseries, model.TimeseriesPoint{
			Date:          r.Date,
			ExpectedGoals: r.ExpectedGoals,
			Goals:         r.Goals,
		})
		rep.ExportRows = append(rep.ExportRows, model.ExportRow{
			Index:            i + 1,
			Record:           r,
			ShootingAccuracy: acc,
		})
	}

	rep.TotalExpectedGoals = xgSum
	rep.AverageMinutes = model.Mean(float64(rep.TotalMinutes), n)
	rep.AverageGoals = model.Mean(float64(rep.TotalGoals), n)
	rep.AverageExpectedGoals = model.Mean(xgSum, n)
	rep.AverageGoalsHome = model.Mean(float64(homeGoals), rep.HomeMatches)
	rep.AverageGoalsAway = model.Mean(float64(awayGoals), rep.AwayMatches)
	rep.AverageAssists = model.Mean(float64(rep.TotalAssists), n)
	rep.AverageContributionPerGame = model.Mean(contribSum, n)
	rep.AverageShootingAccuracy = model.Mean(accSum, n)

	// Charts draw left to right; equal dates keep log order.
	sort.SliceStable(rep.Timeseries, func(i, j int) bool {
		return rep.Timeseries[i].Date.Before(rep.Timeseries[j].Date)
	})

	return rep
}

// RunningTotal is one chronological step of a player's goal tally.
type RunningTotal struct {
	model.TimeseriesPoint
	CumGoals         int
	CumExpectedGoals float64
}

// Trend returns the report's timeseries with cumulative goals and xG.
func Trend(rep model.PlayerReport) []RunningTotal {
	out := make([]RunningTotal, 0, len(rep.Timeseries))
	var goals int
	var xg float64
	for _, p := range rep.Timeseries {
		goals += p.Goals
		xg += p.ExpectedGoals
		out = append(out, RunningTotal{TimeseriesPoint: p, CumGoals: goals, CumExpectedGoals: xg})
	}
	return out
}
