package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/pable/go-player-report/internal/dashboard"
	"github.com/pable/go-player-report/internal/model"
)

const analyzeSystemPrompt = `You are a football (soccer) performance analyst. You are given structured
season data for one player, computed from their per-match log, and a question.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and concrete.
- A null value means the underlying set was empty ("no data"), not zero.

Metrics glossary:
- xG: expected goals, the summed quality of the player's chances.
- goals_minus_xg: positive means finishing above chance quality.
- shooting_accuracy: shots on target as a percentage of shots (0 when no shots).
- contribution: goals plus assists per match.
- home/away: averages over matches at the player's home ground vs away.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <player> <question>",
	Short: "AI-powered grounded analysis of a player's season (requires ANTHROPIC_API_KEY)",
	Long: `Send the computed season report (never the raw files) together with a question
to the Anthropic API and stream the answer.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	res, err := newGenerator().Generate(cmd.Context(), selection(args[0]))
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if res.Report.Matches == 0 {
		return fmt.Errorf("no matches for %s", res.Player)
	}

	contextJSON, err := buildReportContext(res)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.Analyze.Model
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, args[1])
}

// buildReportContext serialises a season report into compact JSON.
func buildReportContext(res *dashboard.Result) (string, error) {
	rep := res.Report

	type matchEntry struct {
		Date     string  `json:"date"`
		Venue    string  `json:"venue"`
		Opponent string  `json:"opponent"`
		Minutes  int     `json:"minutes"`
		Goals    int     `json:"goals"`
		Assists  int     `json:"assists"`
		Shots    int     `json:"shots"`
		SoT      int     `json:"shots_on_target"`
		XG       float64 `json:"xg"`
	}
	matches := make([]matchEntry, 0, len(rep.ExportRows))
	for _, row := range rep.ExportRows {
		r := row.Record
		matches = append(matches, matchEntry{
			Date:     r.Date.Format(model.DateLayout),
			Venue:    strings.ToLower(r.VenueLabel()),
			Opponent: r.Opponent,
			Minutes:  r.MinutesPlayed,
			Goals:    r.Goals,
			Assists:  r.Assists,
			Shots:    r.Shots,
			SoT:      r.ShotsOnTarget,
			XG:       round2(r.ExpectedGoals),
		})
	}

	doc := map[string]interface{}{
		"subject": "player_season",
		"player":  rep.Player,
		"season":  res.Season,
		"matches": rep.Matches,
		"totals": map[string]interface{}{
			"minutes":         rep.TotalMinutes,
			"goals":           rep.TotalGoals,
			"xg":              round2(rep.TotalExpectedGoals),
			"goals_minus_xg":  round2(rep.GoalsMinusExpected()),
			"assists":         rep.TotalAssists,
			"shots":           rep.TotalShots,
			"shots_on_target": rep.TotalShotsOnTarget,
		},
		"averages": map[string]interface{}{
			"minutes":           stat2(rep.AverageMinutes),
			"goals":             stat2(rep.AverageGoals),
			"xg":                stat2(rep.AverageExpectedGoals),
			"assists":           stat2(rep.AverageAssists),
			"contribution":      stat2(rep.AverageContributionPerGame),
			"shooting_accuracy": stat2(rep.AverageShootingAccuracy),
		},
		"venue": map[string]interface{}{
			"home_matches":   rep.HomeMatches,
			"away_matches":   rep.AwayMatches,
			"avg_goals_home": stat2(rep.AverageGoalsHome),
			"avg_goals_away": stat2(rep.AverageGoalsAway),
		},
		"goals_by_opponent": rep.GoalsByOpponent,
		"match_log":         matches,
	}

	b, err := sonic.ConfigStd.Marshal(doc)
	return string(b), err
}

// stat2 rounds a defined stat to 2 decimals and maps "no data" to nil.
func stat2(s model.Stat) interface{} {
	if !s.Valid {
		return nil
	}
	return round2(s.Value)
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	logger.Debug("calling anthropic", "model", modelID, "context_bytes", len(dataJSON))

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
