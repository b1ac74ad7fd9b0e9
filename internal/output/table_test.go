package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/res2csv/internal/flatten"
)

func row(pairs ...string) flatten.Row {
	r := flatten.Row{Values: make(map[string]string)}

	for i := 0; i < len(pairs); i += 2 {
		r.Keys = append(r.Keys, pairs[i])
		r.Values[pairs[i]] = pairs[i+1]
	}

	return r
}

func TestBuildTable_FirstSeenOrder(t *testing.T) {
	rows := []flatten.Row{
		row("b", "1", "a", "2"),
		row("c", "3", "a", "4"),
	}

	table, err := BuildTable(rows, OrderFirstSeen)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, table.Columns)
	assert.Equal(t, [][]string{
		{"1", "2", ""},
		{"", "4", "3"},
	}, table.Rows)
}

func TestBuildTable_AlphaOrder(t *testing.T) {
	rows := []flatten.Row{
		row("z", "1", "a", "2"),
		row("m", "3"),
	}

	table, err := BuildTable(rows, OrderAlpha)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "m", "z"}, table.Columns)
}

func TestBuildTable_EmptyOrderDefaultsToFirstSeen(t *testing.T) {
	table, err := BuildTable([]flatten.Row{row("x", "1")}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, table.Columns)
}

func TestBuildTable_UnknownOrder(t *testing.T) {
	_, err := BuildTable(nil, "bogus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column order "bogus"`)
}

func TestValidColumnOrder(t *testing.T) {
	assert.NoError(t, ValidColumnOrder(OrderFirstSeen))
	assert.NoError(t, ValidColumnOrder(OrderAlpha))
	assert.NoError(t, ValidColumnOrder(""))
	assert.Error(t, ValidColumnOrder("reverse"))
}

func TestBuildTable_MissingKeysBecomeEmptyCells(t *testing.T) {
	rows := []flatten.Row{
		row("x", "1"),
		row("y", "2"),
	}

	table, err := BuildTable(rows, OrderFirstSeen)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, table.Columns)
	assert.Equal(t, []string{"1", ""}, table.Rows[0])
	assert.Equal(t, []string{"", "2"}, table.Rows[1])
}

func TestBuildTable_NoRows(t *testing.T) {
	table, err := BuildTable(nil, OrderFirstSeen)
	require.NoError(t, err)

	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestBuildTable_RowsWithNoKeys(t *testing.T) {
	table, err := BuildTable([]flatten.Row{{Values: map[string]string{}}}, OrderFirstSeen)
	require.NoError(t, err)

	assert.Empty(t, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Empty(t, table.Rows[0])
}

func TestPinColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b", "c"},
		Rows:    [][]string{{"1", "2", "3"}},
	}

	PinColumns(table, []string{"c", "a"})

	assert.Equal(t, []string{"c", "a", "b"}, table.Columns)
	assert.Equal(t, [][]string{{"3", "1", "2"}}, table.Rows)
}

func TestPinColumns_IgnoresUnknownAndDuplicates(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}},
	}

	PinColumns(table, []string{"nope", "b", "b"})

	assert.Equal(t, []string{"b", "a"}, table.Columns)
	assert.Equal(t, [][]string{{"2", "1"}}, table.Rows)
}

func TestPinColumns_EmptyPinIsNoop(t *testing.T) {
	table := &Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}}

	PinColumns(table, nil)

	assert.Equal(t, []string{"a"}, table.Columns)
}
