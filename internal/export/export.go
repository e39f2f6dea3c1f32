// Package export serializes a report's per-match table for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-player-report/internal/loader"
	"github.com/pable/go-player-report/internal/model"
)

// ColShootingAccuracy is the derived per-match accuracy column appended to exports.
const ColShootingAccuracy = "Shooting_Accuracy"

// Options controls the export layout.
type Options struct {
	// Index writes a leading unnamed column holding the 1-based row number.
	Index bool
}

// Filename returns the download name for a player's season export, e.g.
// "Yira Sor_data_2023.csv". ext includes the leading dot.
func Filename(player string, season int, ext string) string {
	return fmt.Sprintf("%s_data_%d%s", player, season, ext)
}

// Header returns the column names written by WriteCSV and WriteXLSX.
func Header(opts Options) []string {
	cols := make([]string, 0, len(loader.RequiredColumns)+2)
	if opts.Index {
		cols = append(cols, "")
	}
	cols = append(cols, loader.RequiredColumns...)
	return append(cols, ColShootingAccuracy)
}

// fields renders one row in Header order.
func fields(row model.ExportRow, opts Options) []string {
	r := row.Record
	venue := "0"
	if r.Home {
		venue = "1"
	}
	out := make([]string, 0, 11)
	if opts.Index {
		out = append(out, strconv.Itoa(row.Index))
	}
	return append(out,
		r.Date.Format(model.DateLayout),
		strconv.Itoa(r.MinutesPlayed),
		strconv.Itoa(r.Goals),
		strconv.Itoa(r.Assists),
		strconv.Itoa(r.Shots),
		strconv.Itoa(r.ShotsOnTarget),
		strconv.FormatFloat(r.ExpectedGoals, 'f', -1, 64),
		venue,
		r.Opponent,
		strconv.FormatFloat(row.ShootingAccuracy, 'f', -1, 64),
	)
}

// WriteCSV writes rows as UTF-8 CSV with a header line.
func WriteCSV(w io.Writer, rows []model.ExportRow, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(opts)); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, row := range rows {
		if err := cw.Write(fields(row, opts)); err != nil {
			return errors.Wrapf(err, "write csv row %d", row.Index)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// WriteXLSX writes rows as a single-sheet workbook named after the player.
// Numeric columns are stored as numbers, not text.
func WriteXLSX(w io.Writer, player string, rows []model.ExportRow, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(player)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "name sheet")
	}

	header := Header(opts)
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, row := range rows {
		r := row.Record
		venue := 0
		if r.Home {
			venue = 1
		}
		vals := make([]interface{}, 0, len(header))
		if opts.Index {
			vals = append(vals, row.Index)
		}
		vals = append(vals,
			r.Date.Format(model.DateLayout),
			r.MinutesPlayed, r.Goals, r.Assists, r.Shots, r.ShotsOnTarget,
			r.ExpectedGoals, venue, r.Opponent, row.ShootingAccuracy,
		)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return errors.Wrapf(err, "write row %d", row.Index)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

// sheetName trims player to Excel's 31-character limit and drops characters
// Excel rejects in sheet names.
func sheetName(player string) string {
	out := make([]rune, 0, len(player))
	for _, c := range player {
		switch c {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, c)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Matches"
	}
	return string(out)
}
