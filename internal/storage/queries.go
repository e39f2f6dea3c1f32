package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/pable/go-player-report/internal/model"
)

// Totals is the SQL-side summary of one player's matches.
type Totals struct {
	Player        string
	Matches       int
	Minutes       int
	Goals         int
	Assists       int
	Shots         int
	ShotsOnTarget int
	ExpectedGoals float64
	HomeMatches   int
}

// InsertPlayerLog replaces the stored matches of log.Player with log's
// records, in a single transaction. Match idx is the 1-based log position.
func (db *DB) InsertPlayerLog(ctx context.Context, log model.PlayerLog) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE player = ?`, log.Player); err != nil {
		return errors.Wrapf(err, "clear matches for %s", log.Player)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO players(name, source, match_count) VALUES (?, ?, ?)`,
		log.Player, log.Source, log.Len(),
	); err != nil {
		return errors.Wrapf(err, "insert player %s", log.Player)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches(
			player, idx, match_date, minutes, goals, assists,
			shots, shots_on_target, xg, venue, opponent, shooting_accuracy
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for i, r := range log.Records {
		_, err = stmt.ExecContext(ctx,
			log.Player, i+1, r.Date.Format(model.DateLayout),
			r.MinutesPlayed, r.Goals, r.Assists,
			r.Shots, r.ShotsOnTarget, r.ExpectedGoals,
			boolInt(r.Home), r.Opponent, r.ShootingAccuracy(),
		)
		if err != nil {
			return errors.Wrapf(err, "insert match %d for %s", i+1, log.Player)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// ListPlayers returns the stored player names in alphabetical order.
func (db *DB) ListPlayers(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT name FROM players ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list players")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// PlayerTotals sums a player's stored matches.
func (db *DB) PlayerTotals(ctx context.Context, player string) (Totals, error) {
	t := Totals{Player: player}
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(minutes), 0),
		       COALESCE(SUM(goals), 0),
		       COALESCE(SUM(assists), 0),
		       COALESCE(SUM(shots), 0),
		       COALESCE(SUM(shots_on_target), 0),
		       COALESCE(SUM(xg), 0.0),
		       COALESCE(SUM(venue), 0)
		FROM matches WHERE player = ?`, player,
	).Scan(&t.Matches, &t.Minutes, &t.Goals, &t.Assists, &t.Shots, &t.ShotsOnTarget, &t.ExpectedGoals, &t.HomeMatches)
	if err != nil {
		return t, errors.Wrapf(err, "totals for %s", player)
	}
	return t, nil
}

// GoalsByOpponent returns a player's total goals per opponent, sorted by
// opponent name.
func (db *DB) GoalsByOpponent(ctx context.Context, player string) ([]model.OpponentGoals, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT opponent, SUM(goals) FROM matches
		WHERE player = ?
		GROUP BY opponent
		ORDER BY opponent`, player)
	if err != nil {
		return nil, errors.Wrapf(err, "goals by opponent for %s", player)
	}
	defer rows.Close()

	var out []model.OpponentGoals
	for rows.Next() {
		var og model.OpponentGoals
		if err := rows.Scan(&og.Opponent, &og.Goals); err != nil {
			return nil, err
		}
		out = append(out, og)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows
// rendered as strings. NULL renders as "NULL".
func (db *DB) QueryRaw(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, errors.Wrap(err, "query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Summary pairs a player's stored totals with the opponent they scored most
// against. TopOpponent is zero when the player has no goals.
type Summary struct {
	Totals
	TopOpponent model.OpponentGoals
}

// Summaries returns one Summary per stored player, in name order. Ties for
// the top opponent go to the alphabetically first name.
func (db *DB) Summaries(ctx context.Context) ([]Summary, error) {
	players, err := db.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(players))
	for _, name := range players {
		t, err := db.PlayerTotals(ctx, name)
		if err != nil {
			return nil, err
		}
		opps, err := db.GoalsByOpponent(ctx, name)
		if err != nil {
			return nil, err
		}
		s := Summary{Totals: t}
		for _, og := range opps {
			if og.Goals > s.TopOpponent.Goals {
				s.TopOpponent = og
			}
		}
		out = append(out, s)
	}
	return out, nil
}
