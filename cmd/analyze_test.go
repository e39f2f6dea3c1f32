package cmd

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/pable/go-player-report/internal/aggregator"
	"github.com/pable/go-player-report/internal/dashboard"
	"github.com/pable/go-player-report/internal/model"
)

func TestBuildReportContext(t *testing.T) {
	log := model.PlayerLog{
		Player: "Yira Sor",
		Records: []model.MatchRecord{
			{Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), MinutesPlayed: 90, Goals: 2, Shots: 4, ShotsOnTarget: 3, ExpectedGoals: 1.234, Home: true, Opponent: "Genk"},
		},
	}
	res := &dashboard.Result{
		Selection: dashboard.Selection{Player: log.Player, Season: 2023},
		Log:       log,
		Report:    aggregator.Build(log),
	}

	raw, err := buildReportContext(res)
	if err != nil {
		t.Fatalf("buildReportContext: %v", err)
	}
	var doc map[string]interface{}
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &doc); err != nil {
		t.Fatalf("context is not valid JSON: %v", err)
	}

	if doc["player"] != "Yira Sor" || doc["season"] != float64(2023) {
		t.Errorf("unexpected header fields: %v %v", doc["player"], doc["season"])
	}
	venue := doc["venue"].(map[string]interface{})
	if venue["avg_goals_home"] != float64(2) {
		t.Errorf("avg_goals_home: want 2, got %v", venue["avg_goals_home"])
	}
	if v, ok := venue["avg_goals_away"]; !ok || v != nil {
		t.Errorf("avg_goals_away should be present and null, got %v (present=%v)", v, ok)
	}
	totals := doc["totals"].(map[string]interface{})
	if totals["xg"] != 1.23 {
		t.Errorf("xg should be rounded to 1.23, got %v", totals["xg"])
	}
	matches := doc["match_log"].([]interface{})
	if len(matches) != 1 || matches[0].(map[string]interface{})["venue"] != "home" {
		t.Errorf("unexpected match log %v", matches)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{1.234: 1.23, 2.5: 2.5, -0.456: -0.46, 0: 0}
	for in, want := range cases {
		if got := round2(in); got != want {
			t.Errorf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}
