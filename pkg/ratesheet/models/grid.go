package models

// Row is one sheet row.
type Row []Cell

// IsEmpty reports whether every cell in the row is empty.
func (r Row) IsEmpty() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// NonEmpty returns the number of non-empty cells.
func (r Row) NonEmpty() int {
	n := 0
	for _, c := range r {
		if !c.IsEmpty() {
			n++
		}
	}
	return n
}

// Strings renders every cell with Cell.String.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Grid is a 0-indexed rectangular block of cells, addressed [row][col].
type Grid []Row

// NewGrid builds a rectangular grid from raw values. Strings become text
// cells, Go numeric types become number cells, anything else is empty.
// Short rows are padded to the widest row.
func NewGrid(rows [][]interface{}) Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g := make(Grid, len(rows))
	for i, r := range rows {
		g[i] = make(Row, width)
		for j, v := range r {
			g[i][j] = CellOf(v)
		}
	}
	return g
}

// CellOf converts a Go value to a Cell.
func CellOf(v interface{}) Cell {
	switch t := v.(type) {
	case Cell:
		return t
	case string:
		return Text(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	default:
		return Cell{}
	}
}

// Width returns the column count of the grid (the widest row).
func (g Grid) Width() int {
	w := 0
	for _, r := range g {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Rect returns a copy of the grid with every row padded to Width.
func (g Grid) Rect() Grid {
	w := g.Width()
	out := make(Grid, len(g))
	for i, r := range g {
		row := make(Row, w)
		copy(row, r)
		out[i] = row
	}
	return out
}

// Strings renders the grid as text.
func (g Grid) Strings() [][]string {
	out := make([][]string, len(g))
	for i, r := range g {
		out[i] = r.Strings()
	}
	return out
}
