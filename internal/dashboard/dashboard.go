// Package dashboard turns a (player, season) selection into a complete
// report: it resolves the player's backing file, loads and validates the
// log, and computes every metric the presentation layers display.
package dashboard

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pable/go-player-report/internal/aggregator"
	"github.com/pable/go-player-report/internal/config"
	"github.com/pable/go-player-report/internal/export"
	"github.com/pable/go-player-report/internal/loader"
	"github.com/pable/go-player-report/internal/logging"
	"github.com/pable/go-player-report/internal/model"
)

var (
	ErrUnknownPlayer = errors.New("unknown player")
	ErrUnknownSeason = errors.New("unknown season")
)

// Selection names what to report on. A zero Season selects the latest
// configured season.
type Selection struct {
	Player string
	Season int
}

// Result is one generated report together with the log it was built from.
type Result struct {
	Selection
	Log    model.PlayerLog
	Report model.PlayerReport
}

// Filename returns the export download name, ext including the dot.
func (r *Result) Filename(ext string) string {
	return export.Filename(r.Player, r.Season, ext)
}

// Generator builds reports for the configured players.
type Generator struct {
	cfg    *config.Config
	logger *logging.Logger
}

func NewGenerator(cfg *config.Config, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Players returns the selectable player names.
func (g *Generator) Players() []string { return g.cfg.PlayerNames() }

// Seasons returns the selectable seasons.
func (g *Generator) Seasons() []int { return g.cfg.Seasons }

// DefaultSeason returns the season used when a selection names none.
func (g *Generator) DefaultSeason() int { return g.cfg.DefaultSeason() }

// Resolve validates sel and fills in the default season.
func (g *Generator) Resolve(sel Selection) (Selection, string, error) {
	path, ok := g.cfg.PlayerFile(sel.Player)
	if !ok {
		return sel, "", errors.Wrapf(ErrUnknownPlayer, "player %q", sel.Player)
	}
	if sel.Season == 0 {
		sel.Season = g.cfg.DefaultSeason()
	}
	if !g.cfg.HasSeason(sel.Season) {
		return sel, "", errors.Wrapf(ErrUnknownSeason, "season %d", sel.Season)
	}
	return sel, path, nil
}

// Generate loads the selected player's log and builds its report. The season
// labels the result but does not filter the log.
func (g *Generator) Generate(ctx context.Context, sel Selection) (*Result, error) {
	sel, path, err := g.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	log, err := loader.LoadFile(sel.Player, path)
	if err != nil {
		g.logger.Warn("load failed", "player", sel.Player, "path", path, "err", err)
		return nil, errors.Wrapf(err, "load %s", sel.Player)
	}
	rep := aggregator.Build(log)
	g.logger.Debug("report built",
		"player", sel.Player,
		"season", sel.Season,
		"matches", rep.Matches,
		"elapsed", time.Since(start),
	)
	return &Result{Selection: sel, Log: log, Report: rep}, nil
}

// GenerateAll builds a report for each named player, or for every configured
// player when names is empty. It stops at the first failure.
func (g *Generator) GenerateAll(ctx context.Context, names []string, season int) ([]*Result, error) {
	if len(names) == 0 {
		names = g.Players()
	}
	out := make([]*Result, 0, len(names))
	for _, name := range names {
		res, err := g.Generate(ctx, Selection{Player: name, Season: season})
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// IsDataError reports whether err came from a malformed match log rather
// than a missing file or an invalid selection.
func IsDataError(err error) bool {
	var mc *loader.MissingColumnError
	var df *loader.DataFormatError
	return errors.As(err, &mc) || errors.As(err, &df)
}
