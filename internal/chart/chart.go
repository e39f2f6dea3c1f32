// Package chart builds the report's two charts with go-echarts and renders
// them as a standalone HTML page.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pable/go-player-report/internal/model"
)

const (
	width     = "1000px"
	height    = "500px"
	textColor = "#333333"

	// Series and chart titles shown to users.
	TitleExpectedVsActual = "Expected Goals vs Actual Goals"
	TitleGoalsByOpponent  = "Total Goals Scored Against Each Opponent"
	SeriesExpected        = "Expected Goals (xG)"
	SeriesActual          = "Actual Goals"
	SeriesOpponentGoals   = "Total Goals"
)

// ExpectedVsActual returns a line chart of xG and goals per match date.
// points must already be in date order.
func ExpectedVsActual(points []model.TimeseriesPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{
			Title:      TitleExpectedVsActual,
			TitleStyle: &opts.TextStyle{Color: textColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "Date",
			NameLocation: "center",
			NameGap:      60,
			AxisLabel:    &opts.AxisLabel{Rotate: 45, Color: textColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Goals",
			NameLocation: "center",
			NameGap:      40,
		}),
		charts.WithGridOpts(opts.Grid{Left: "60", Right: "40", Bottom: "90"}),
	)

	dates := make([]string, len(points))
	xg := make([]opts.LineData, len(points))
	goals := make([]opts.LineData, len(points))
	for i, p := range points {
		dates[i] = p.Date.Format(model.DateLayout)
		xg[i] = opts.LineData{Value: p.ExpectedGoals, Symbol: "circle"}
		goals[i] = opts.LineData{Value: p.Goals, Symbol: "diamond"}
	}

	line.SetXAxis(dates).
		AddSeries(SeriesExpected, xg).
		AddSeries(SeriesActual, goals)
	return line
}

// GoalsByOpponent returns a bar chart of total goals per opponent, in the
// order given.
func GoalsByOpponent(totals []model.OpponentGoals) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{
			Title:      TitleGoalsByOpponent,
			TitleStyle: &opts.TextStyle{Color: textColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "Opponent",
			NameLocation: "center",
			NameGap:      80,
			AxisLabel:    &opts.AxisLabel{Rotate: 45, Interval: "0", Color: textColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Total Goals",
			NameLocation: "center",
			NameGap:      40,
		}),
		charts.WithGridOpts(opts.Grid{Left: "60", Right: "40", Bottom: "110"}),
	)

	names := make([]string, len(totals))
	data := make([]opts.BarData, len(totals))
	for i, t := range totals {
		names[i] = t.Opponent
		data[i] = opts.BarData{Value: t.Goals, ItemStyle: &opts.ItemStyle{Color: "skyblue"}}
	}
	bar.SetXAxis(names).AddSeries(SeriesOpponentGoals, data)
	return bar
}

// Page assembles both charts for one player and season.
func Page(rep model.PlayerReport, season int) *components.Page {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s %d", rep.Player, season)
	page.AddCharts(
		ExpectedVsActual(rep.Timeseries),
		GoalsByOpponent(rep.OpponentTotals()),
	)
	return page
}

// Render writes the chart page for rep to w as HTML.
func Render(w io.Writer, rep model.PlayerReport, season int) error {
	return Page(rep, season).Render(w)
}
