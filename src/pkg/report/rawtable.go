package report

import (
	"strings"
)

/*
RawTable is the shape every extract collaborator hands to the pipeline: a
header row plus string cells, exactly as they came out of the workbook, the
form, or the stored procedure. The normalizers own all retyping; nothing
downstream ever touches a RawTable directly.
*/
type RawTable struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

/*
ColumnIndex returns the position of the named column, or -1 when the table
has no such column. Header matching is exact after trimming whitespace.
*/
func (t RawTable) ColumnIndex(name string) int {
	wanted := strings.TrimSpace(name)
	for index := 0; index < len(t.Columns); index += 1 {
		if strings.TrimSpace(t.Columns[index]) == wanted {
			return index
		}
	}
	return -1
}

/*
Cell returns the value at (row, column index), or "" when the row is shorter
than the header. Short rows are common in spreadsheet extracts where trailing
empty cells are dropped.
*/
func (t RawTable) Cell(row int, columnIndex int) string {
	if columnIndex < 0 || columnIndex >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][columnIndex])
}

// IsEmpty reports whether the table has no data rows.
func (t RawTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

/*
RequireColumns verifies that every named column is present and returns a
*SchemaError naming the first missing one. Normalizers call this before
reading any cell so a malformed extract fails before partial output exists.
*/
func (t RawTable) RequireColumns(names ...string) error {
	for _, name := range names {
		if t.ColumnIndex(name) < 0 {
			return &SchemaError{Table: t.Name, Column: name}
		}
	}
	return nil
}
