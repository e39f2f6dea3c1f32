package loader

import "fmt"

// MissingColumnError reports a required CSV column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// DataFormatError reports a value that failed type coercion. Row is the
// 1-based data row, matching the index shown in exports.
type DataFormatError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *DataFormatError) Error() string {
	msg := fmt.Sprintf("row %d: column %s: invalid value %q", e.Row, e.Column, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
