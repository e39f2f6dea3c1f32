package model

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used for display and export.
const DateLayout = "2006-01-02"

// MatchRecord is one row of a player's per-game log.
type MatchRecord struct {
	Date          time.Time
	MinutesPlayed int
	Goals         int
	Assists       int
	Shots         int
	ShotsOnTarget int
	ExpectedGoals float64
	Home          bool // true = home ground, false = away
	Opponent      string
}

// Contribution returns goals plus assists for the match.
func (r MatchRecord) Contribution() int {
	return r.Goals + r.Assists
}

// ShootingAccuracy returns shots on target as a percentage of shots.
// Returns 0 when no shots were taken or when the row claims more shots on
// target than shots.
func (r MatchRecord) ShootingAccuracy() float64 {
	if r.Shots <= 0 || r.ShotsOnTarget < 0 || r.ShotsOnTarget > r.Shots {
		return 0
	}
	return float64(r.ShotsOnTarget) / float64(r.Shots) * 100
}

// VenueLabel returns "Home" or "Away".
func (r MatchRecord) VenueLabel() string {
	if r.Home {
		return "Home"
	}
	return "Away"
}

// PlayerLog is the ordered match log of one player, as read from its backing file.
type PlayerLog struct {
	Player  string
	Source  string // path the log was read from; empty for in-memory logs
	Records []MatchRecord
}

// Len returns the number of matches in the log.
func (l PlayerLog) Len() int { return len(l.Records) }

// Stat is a real-valued aggregate that may be undefined. An invalid Stat means
// the input set was empty ("no data"); it is never reported as zero.
type Stat struct {
	Value float64
	Valid bool
}

// Mean returns sum/n, or an invalid Stat when n is zero.
func Mean(sum float64, n int) Stat {
	if n <= 0 {
		return Stat{}
	}
	return Stat{Value: sum / float64(n), Valid: true}
}

// NoData is the text rendering of an undefined aggregate.
const NoData = "no data"

// String formats the stat with two decimals.
func (s Stat) String() string {
	return s.Format("%.2f")
}

// Format renders the value with the given verb, or NoData when undefined.
func (s Stat) Format(verb string) string {
	if !s.Valid {
		return NoData
	}
	return fmt.Sprintf(verb, s.Value)
}

// MarshalJSON encodes an undefined stat as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, s.Value, 'f', -1, 64), nil
}

// TimeseriesPoint is one date on the expected-vs-actual goals chart.
type TimeseriesPoint struct {
	Date          time.Time `json:"date"`
	ExpectedGoals float64   `json:"expected_goals"`
	Goals         int       `json:"goals"`
}

// ExportRow is one row of the export table: the original record plus its
// 1-based position in the log and its derived shooting accuracy.
type ExportRow struct {
	Index            int         `json:"index"`
	Record           MatchRecord `json:"-"`
	ShootingAccuracy float64     `json:"shooting_accuracy"`
}

// OpponentGoals is one bar of the goals-by-opponent chart.
type OpponentGoals struct {
	Opponent string `json:"opponent"`
	Goals    int    `json:"goals"`
}

// PlayerReport holds every metric computed from a PlayerLog.
type PlayerReport struct {
	Player  string `json:"player"`
	Matches int    `json:"matches"`

	TotalMinutes   int  `json:"total_minutes"`
	AverageMinutes Stat `json:"average_minutes"`

	TotalGoals   int  `json:"total_goals"`
	AverageGoals Stat `json:"average_goals"`

	TotalExpectedGoals   float64 `json:"total_expected_goals"`
	AverageExpectedGoals Stat    `json:"average_expected_goals"`

	HomeMatches      int  `json:"home_matches"`
	AwayMatches      int  `json:"away_matches"`
	AverageGoalsHome Stat `json:"average_goals_home"`
	AverageGoalsAway Stat `json:"average_goals_away"`

	TotalAssists   int  `json:"total_assists"`
	AverageAssists Stat `json:"average_assists"`

	AverageContributionPerGame Stat `json:"average_contribution_per_game"`

	TotalShots              int       `json:"total_shots"`
	TotalShotsOnTarget      int       `json:"total_shots_on_target"`
	PerRecordShootingAcc    []float64 `json:"per_record_shooting_accuracy"`
	AverageShootingAccuracy Stat      `json:"average_shooting_accuracy"`

	GoalsByOpponent map[string]int    `json:"goals_by_opponent"`
	Timeseries      []TimeseriesPoint `json:"timeseries"`
	ExportRows      []ExportRow       `json:"-"`
}

// OpponentTotals returns GoalsByOpponent as a slice sorted by opponent name.
func (r PlayerReport) OpponentTotals() []OpponentGoals {
	out := make([]OpponentGoals, 0, len(r.GoalsByOpponent))
	for name, goals := range r.GoalsByOpponent {
		out = append(out, OpponentGoals{Opponent: name, Goals: goals})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Opponent < out[j].Opponent })
	return out
}

// GoalsMinusExpected returns total goals minus total xG.
func (r PlayerReport) GoalsMinusExpected() float64 {
	return float64(r.TotalGoals) - r.TotalExpectedGoals
}
