package loader

import (
	"strconv"
	"strings"
)

// RawTable is the untyped result of loading a data file: the column names in
// on-disk order and every data row as strings. It is never mutated after load;
// callers that need typed values go through the normalizer.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all values of the named column, or nil when absent.
func (t *RawTable) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	vals := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			vals[i] = row[idx]
		}
	}
	return vals
}

// Head returns up to n rows, for mapping previews.
func (t *RawTable) Head(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Columns))
		copy(row, t.Rows[i])
		out[i] = row
	}
	return out
}

// buildTable assembles a RawTable from a header row and the data rows below
// it. Blank header cells get positional names and duplicate names a numeric
// suffix, so a column mapping can always address exactly one column. Rows are
// padded to the header width and fully blank rows are skipped.
func buildTable(header []string, rows [][]string) *RawTable {
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = trimCell(name)
		if name == "" {
			name = "Column " + strconv.Itoa(i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = name + " #" + strconv.Itoa(n)
		}
		cols[i] = name
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		r := make([]string, len(cols))
		for i := range cols {
			if i < len(row) {
				r[i] = trimCell(row[i])
			}
		}
		out = append(out, r)
	}
	return &RawTable{Columns: cols, Rows: out}
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if trimCell(v) != "" {
			return false
		}
	}
	return true
}

func trimCell(s string) string {
	if strings.Contains(s, " ") {
		s = strings.ReplaceAll(s, " ", " ")
	}
	return strings.TrimSpace(s)
}
