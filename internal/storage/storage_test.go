package storage

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pable/go-player-report/internal/aggregator"
	"github.com/pable/go-player-report/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleLog() model.PlayerLog {
	d := func(m time.Month, day int) time.Time { return time.Date(2023, m, day, 0, 0, 0, 0, time.UTC) }
	return model.PlayerLog{
		Player: "Yira Sor",
		Source: "yira_clean.csv",
		Records: []model.MatchRecord{
			{Date: d(1, 1), MinutesPlayed: 90, Goals: 2, Assists: 1, Shots: 5, ShotsOnTarget: 3, ExpectedGoals: 1.5, Home: true, Opponent: "Genk"},
			{Date: d(1, 8), MinutesPlayed: 80, ExpectedGoals: 0.2, Opponent: "Anderlecht"},
			{Date: d(1, 15), MinutesPlayed: 64, Goals: 1, Shots: 3, ShotsOnTarget: 1, ExpectedGoals: 0.37, Home: true, Opponent: "Genk"},
		},
	}
}

func TestInsertAndListPlayers(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	for _, name := range []string{"Yira Sor", "Tolu Arokodare"} {
		log := sampleLog()
		log.Player = name
		if err := db.InsertPlayerLog(ctx, log); err != nil {
			t.Fatalf("InsertPlayerLog(%s): %v", name, err)
		}
	}

	got, err := db.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(got) != 2 || got[0] != "Tolu Arokodare" || got[1] != "Yira Sor" {
		t.Errorf("unexpected players %v", got)
	}
}

func TestTotalsAgreeWithAggregator(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	log := sampleLog()
	if err := db.InsertPlayerLog(ctx, log); err != nil {
		t.Fatalf("InsertPlayerLog: %v", err)
	}

	tot, err := db.PlayerTotals(ctx, log.Player)
	if err != nil {
		t.Fatalf("PlayerTotals: %v", err)
	}
	rep := aggregator.Build(log)

	if tot.Matches != rep.Matches || tot.Goals != rep.TotalGoals || tot.Assists != rep.TotalAssists {
		t.Errorf("counts differ: sql=%+v report matches=%d goals=%d assists=%d",
			tot, rep.Matches, rep.TotalGoals, rep.TotalAssists)
	}
	if tot.Minutes != rep.TotalMinutes || tot.Shots != rep.TotalShots || tot.ShotsOnTarget != rep.TotalShotsOnTarget {
		t.Errorf("minutes/shots differ: sql=%+v", tot)
	}
	if tot.HomeMatches != rep.HomeMatches {
		t.Errorf("home matches: sql=%d report=%d", tot.HomeMatches, rep.HomeMatches)
	}
	if math.Abs(tot.ExpectedGoals-rep.TotalExpectedGoals) > 1e-9 {
		t.Errorf("xG: sql=%f report=%f", tot.ExpectedGoals, rep.TotalExpectedGoals)
	}

	byOpp, err := db.GoalsByOpponent(ctx, log.Player)
	if err != nil {
		t.Fatalf("GoalsByOpponent: %v", err)
	}
	want := rep.OpponentTotals()
	if len(byOpp) != len(want) {
		t.Fatalf("opponents: sql=%v report=%v", byOpp, want)
	}
	for i := range want {
		if byOpp[i] != want[i] {
			t.Errorf("[%d]: sql=%+v report=%+v", i, byOpp[i], want[i])
		}
	}
}

func TestTotalsUnknownPlayer(t *testing.T) {
	db := openMemDB(t)
	tot, err := db.PlayerTotals(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("PlayerTotals: %v", err)
	}
	if tot.Matches != 0 || tot.Goals != 0 {
		t.Errorf("expected zero totals, got %+v", tot)
	}
}

func TestInsertReplacesPreviousLog(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	log := sampleLog()
	if err := db.InsertPlayerLog(ctx, log); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	log.Records = log.Records[:1]
	if err := db.InsertPlayerLog(ctx, log); err != nil {
		t.Fatalf("second insert should succeed: %v", err)
	}
	tot, _ := db.PlayerTotals(ctx, log.Player)
	if tot.Matches != 1 {
		t.Errorf("want 1 match after replace, got %d", tot.Matches)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	if err := db.InsertPlayerLog(ctx, sampleLog()); err != nil {
		t.Fatalf("InsertPlayerLog: %v", err)
	}

	cols, rows, err := db.QueryRaw(ctx, `
		SELECT idx, match_date, opponent, shooting_accuracy, NULL AS empty
		FROM matches ORDER BY idx`)
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 5 || cols[2] != "opponent" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}
	first := rows[0]
	if first[0] != "1" || first[1] != "2023-01-01" || first[2] != "Genk" || first[3] != "60" || first[4] != "NULL" {
		t.Errorf("unexpected first row %v", first)
	}

	if _, _, err := db.QueryRaw(ctx, "SELECT * FROM no_such_table"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestSummaries(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	scorer := sampleLog()
	blank := model.PlayerLog{
		Player:  "Tolu Arokodare",
		Records: []model.MatchRecord{{Date: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), MinutesPlayed: 12, Opponent: "Gent"}},
	}
	for _, log := range []model.PlayerLog{scorer, blank} {
		if err := db.InsertPlayerLog(ctx, log); err != nil {
			t.Fatalf("InsertPlayerLog(%s): %v", log.Player, err)
		}
	}

	got, err := db.Summaries(ctx)
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 summaries, got %d", len(got))
	}
	if got[0].Player != "Tolu Arokodare" || got[0].Matches != 1 || got[0].TopOpponent.Opponent != "" {
		t.Errorf("unexpected goalless summary %+v", got[0])
	}
	rep := aggregator.Build(scorer)
	s := got[1]
	if s.Player != "Yira Sor" || s.Goals != rep.TotalGoals || s.Matches != rep.Matches || s.HomeMatches != rep.HomeMatches {
		t.Errorf("summary %+v disagrees with report", s)
	}
	if s.TopOpponent.Opponent != "Genk" || s.TopOpponent.Goals != 3 {
		t.Errorf("top opponent: want Genk 3, got %+v", s.TopOpponent)
	}
}
