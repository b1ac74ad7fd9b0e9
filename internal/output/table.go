package output

import (
	"fmt"
	"sort"

	"github.com/hupe1980/res2csv/internal/flatten"
)

// Column ordering modes for CSV headers.
const (
	// OrderFirstSeen lists columns in the order their keys first occur,
	// scanning rows in input order.
	OrderFirstSeen = "first-seen"

	// OrderAlpha lists columns in lexical order.
	OrderAlpha = "alpha"
)

// Table is the rendered form of one group: a header plus rows aligned to it.
type Table struct {
	Columns []string
	Rows    [][]string
}

// BuildTable computes the header as the union of all row keys and renders
// each row against it. Keys missing from a row become empty cells. The
// header is deterministic for a given input: row keys arrive in a stable
// order and the union preserves it (or sorts it, with OrderAlpha).
func BuildTable(rows []flatten.Row, order string) (*Table, error) {
	columns, err := columnUnion(rows, order)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: columns, Rows: make([][]string, 0, len(rows))}

	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = row.Values[col]
		}

		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

// PinColumns moves the listed columns to the front of the table's header,
// in the given order, rewriting every row to match. Pinned names missing
// from the table are ignored, as are duplicates.
func PinColumns(t *Table, pinned []string) {
	if len(pinned) == 0 {
		return
	}

	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		index[c] = i
	}

	order := make([]int, 0, len(t.Columns))
	used := make(map[int]bool, len(t.Columns))

	for _, name := range pinned {
		if i, ok := index[name]; ok && !used[i] {
			order = append(order, i)
			used[i] = true
		}
	}

	for i := range t.Columns {
		if !used[i] {
			order = append(order, i)
		}
	}

	t.Columns = project(t.Columns, order)

	for r, row := range t.Rows {
		t.Rows[r] = project(row, order)
	}
}

// project rearranges cells into the given index order.
func project(cells []string, order []int) []string {
	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = cells[idx]
	}

	return out
}

// ValidColumnOrder checks that order names a supported column ordering.
// An empty string counts as OrderFirstSeen.
func ValidColumnOrder(order string) error {
	switch order {
	case OrderFirstSeen, OrderAlpha, "":
		return nil
	default:
		return fmt.Errorf("unknown column order %q: expected %s or %s", order, OrderFirstSeen, OrderAlpha)
	}
}

// columnUnion collects the distinct keys across rows in the requested order.
func columnUnion(rows []flatten.Row, order string) ([]string, error) {
	if err := ValidColumnOrder(order); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	var columns []string

	for _, row := range rows {
		for _, k := range row.Keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	if order == OrderAlpha {
		sort.Strings(columns)
	}

	return columns, nil
}
