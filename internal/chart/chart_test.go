package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-player-report/internal/aggregator"
	"github.com/pable/go-player-report/internal/model"
)

func testReport() model.PlayerReport {
	d := func(m time.Month, day int) time.Time { return time.Date(2023, m, day, 0, 0, 0, 0, time.UTC) }
	return aggregator.Build(model.PlayerLog{
		Player: "Tolu Arokodare",
		Records: []model.MatchRecord{
			{Date: d(3, 5), Goals: 1, ExpectedGoals: 0.8, Home: true, Opponent: "Standard Liege"},
			{Date: d(1, 22), Goals: 2, ExpectedGoals: 1.1, Opponent: "Anderlecht"},
			{Date: d(2, 12), Goals: 0, ExpectedGoals: 0.25, Home: true, Opponent: "Anderlecht"},
		},
	})
}

func TestRender_ContainsBothCharts(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testReport(), 2023); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		TitleExpectedVsActual, TitleGoalsByOpponent,
		SeriesExpected, SeriesActual,
		"Standard Liege", "Anderlecht",
		"Tolu Arokodare 2023",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRender_DatesAscending(t *testing.T) {
	var buf bytes.Buffer
	if err := ExpectedVsActual(testReport().Timeseries).Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	jan := strings.Index(html, "2023-01-22")
	feb := strings.Index(html, "2023-02-12")
	mar := strings.Index(html, "2023-03-05")
	if jan < 0 || feb < 0 || mar < 0 {
		t.Fatalf("dates missing from chart: jan=%d feb=%d mar=%d", jan, feb, mar)
	}
	if !(jan < feb && feb < mar) {
		t.Errorf("x axis not in date order: jan=%d feb=%d mar=%d", jan, feb, mar)
	}
}

func TestRender_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	rep := aggregator.Build(model.PlayerLog{Player: "Nobody"})
	if err := Render(&buf, rep, 2023); err != nil {
		t.Fatalf("Render of empty report: %v", err)
	}
	if !strings.Contains(buf.String(), TitleGoalsByOpponent) {
		t.Error("empty report should still render chart frames")
	}
}
