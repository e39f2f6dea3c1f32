// Package loader reads per-player match logs from CSV files into typed
// records, validating every value at the boundary.
package loader

import (
	"compress/bzip2"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-player-report/internal/model"
)

// CSV column names of a match log.
const (
	ColDate          = "Date"
	ColMinutes       = "Min"
	ColGoals         = "Gls"
	ColAssists       = "Ast"
	ColShots         = "Sh"
	ColShotsOnTarget = "SoT"
	ColExpectedGoals = "xG"
	ColVenue         = "Venue"
	ColOpponent      = "Opponent"
)

// RequiredColumns lists the columns every match log must carry, in export order.
var RequiredColumns = []string{
	ColDate, ColMinutes, ColGoals, ColAssists, ColShots,
	ColShotsOnTarget, ColExpectedGoals, ColVenue, ColOpponent,
}

// UnnamedIndexColumn is the header pandas gives a saved index column.
const UnnamedIndexColumn = "Unnamed: 0"

var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// LoadFile reads the match log at path. Files ending in .gz, .zst or .bz2 are
// decompressed on the fly.
func LoadFile(player, path string) (model.PlayerLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.PlayerLog{}, errors.Wrapf(err, "open match log for %s", player)
	}
	defer f.Close()

	var src io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return model.PlayerLog{}, errors.Wrapf(err, "gzip %s", path)
		}
		defer gz.Close()
		src = gz
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return model.PlayerLog{}, errors.Wrapf(err, "zstd %s", path)
		}
		defer dec.Close()
		src = dec
	case ".bz2":
		src = bzip2.NewReader(f)
	}

	log, err := Load(player, src)
	if err != nil {
		return model.PlayerLog{}, err
	}
	log.Source = path
	return log, nil
}

// Load parses a match log CSV. A leading unnamed index column is dropped and
// unknown columns are ignored. The first value that fails coercion aborts the
// load with a *DataFormatError; a missing column yields a *MissingColumnError.
func Load(player string, r io.Reader) (model.PlayerLog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return model.PlayerLog{}, &MissingColumnError{Column: RequiredColumns[0]}
	}
	if err != nil {
		return model.PlayerLog{}, errors.Wrap(err, "read header")
	}
	idx, err := columnIndex(header)
	if err != nil {
		return model.PlayerLog{}, err
	}

	log := model.PlayerLog{Player: player}
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.PlayerLog{}, errors.Wrapf(err, "read row %d", row)
		}
		rec, err := parseRecord(row, fields, idx)
		if err != nil {
			return model.PlayerLog{}, err
		}
		log.Records = append(log.Records, rec)
	}
	return log, nil
}

// columnIndex maps each required column to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if i == 0 && (h == "" || h == UnnamedIndexColumn) {
			continue
		}
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := pos[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}
	return pos, nil
}

func parseRecord(row int, fields []string, idx map[string]int) (model.MatchRecord, error) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	var rec model.MatchRecord
	var err error

	if rec.Date, err = parseDate(row, get(ColDate)); err != nil {
		return rec, err
	}
	ints := []struct {
		col string
		dst *int
	}{
		{ColMinutes, &rec.MinutesPlayed},
		{ColGoals, &rec.Goals},
		{ColAssists, &rec.Assists},
		{ColShots, &rec.Shots},
		{ColShotsOnTarget, &rec.ShotsOnTarget},
	}
	for _, f := range ints {
		if *f.dst, err = parseCount(row, f.col, get(f.col)); err != nil {
			return rec, err
		}
	}
	if rec.ExpectedGoals, err = parseReal(row, ColExpectedGoals, get(ColExpectedGoals)); err != nil {
		return rec, err
	}
	if rec.Home, err = parseVenue(row, get(ColVenue)); err != nil {
		return rec, err
	}
	rec.Opponent = get(ColOpponent)
	if rec.Opponent == "" {
		return rec, &DataFormatError{Row: row, Column: ColOpponent, Reason: "empty"}
	}
	return rec, nil
}

func parseDate(row int, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &DataFormatError{Row: row, Column: ColDate, Reason: "empty"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &DataFormatError{Row: row, Column: ColDate, Value: raw, Reason: "not a date"}
}

// parseCount accepts non-negative whole numbers, including the "90.0" form
// written by tools that store counts as floats.
func parseCount(row int, col, raw string) (int, error) {
	v, err := parseReal(row, col, raw)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &DataFormatError{Row: row, Column: col, Value: raw, Reason: "not a whole number"}
	}
	if v > math.MaxInt32 {
		return 0, &DataFormatError{Row: row, Column: col, Value: raw, Reason: "out of range"}
	}
	return int(v), nil
}

func parseReal(row int, col, raw string) (float64, error) {
	if raw == "" {
		return 0, &DataFormatError{Row: row, Column: col, Reason: "empty"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DataFormatError{Row: row, Column: col, Value: raw, Reason: "not a number"}
	}
	if v < 0 {
		return 0, &DataFormatError{Row: row, Column: col, Value: raw, Reason: "negative"}
	}
	return v, nil
}

func parseVenue(row int, raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "1.0", "true", "home", "h":
		return true, nil
	case "0", "0.0", "false", "away", "a":
		return false, nil
	}
	return false, &DataFormatError{
		Row: row, Column: ColVenue, Value: raw,
		Reason: "expected 1/0, true/false or home/away",
	}
}
