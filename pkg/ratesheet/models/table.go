package models

// Table is a located rate table.
type Table struct {
	// HeaderRow is the 0-based index of the detected header row.
	HeaderRow int `json:"header_row"`
	// Start is the first data row (inclusive).
	Start int `json:"start"`
	// End is the row after the last data row (exclusive).
	End int `json:"end"`
	// Range is the A1 reference of the raw block from the header row to End.
	Range string `json:"range,omitempty"`
	// Columns holds one flattened name per column.
	Columns []string `json:"columns"`
	// Rows holds the cleaned data rows, each exactly len(Columns) wide.
	Rows Grid `json:"rows"`
}

// Empty reports whether the table holds no data.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0 || len(t.Columns) == 0
}
