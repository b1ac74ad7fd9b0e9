package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// EncodeCSV renders a table as CSV: comma-delimited, LF line endings, with
// standard quoting (fields containing commas, quotes, or newlines are
// quoted and embedded quotes doubled). The header line always comes first.
// A table with no columns still yields a blank header line plus one blank
// line per row, so the file shape stays consistent.
func EncodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}

	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("encoding row %d: %w", i, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encoding CSV: %w", err)
	}

	return buf.Bytes(), nil
}
