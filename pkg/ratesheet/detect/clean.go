package detect

import "github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"

// CleanTable bounds the block to the shorter of the column names and the
// data width, then drops rows and columns that are entirely empty. The
// returned rows are exactly len(columns) wide.
func CleanTable(columns []string, block models.Grid) ([]string, models.Grid) {
	width := min(len(columns), block.Width())
	if width == 0 {
		return nil, nil
	}

	var rows models.Grid
	for _, r := range block {
		row := make(models.Row, width)
		copy(row, r)
		if !row.IsEmpty() {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var keep []int
	for c := 0; c < width; c++ {
		for _, r := range rows {
			if !r[c].IsEmpty() {
				keep = append(keep, c)
				break
			}
		}
	}

	cols := make([]string, len(keep))
	for i, c := range keep {
		cols[i] = columns[c]
	}
	out := make(models.Grid, len(rows))
	for i, r := range rows {
		row := make(models.Row, len(keep))
		for j, c := range keep {
			row[j] = r[c]
		}
		out[i] = row
	}
	return cols, out
}

// ExtractTable builds the cleaned table below the header row hdr.
func ExtractTable(g models.Grid, hdr int, p Params) models.Table {
	start := min(hdr+1, len(g))
	end := DetectTableEnd(g, start, p)
	columns := FlattenHeaders(g, hdr, p.HeaderDepth, p.HeaderSeparator)
	cols, rows := CleanTable(columns, g[start:end])
	return models.Table{
		HeaderRow: hdr,
		Start:     start,
		End:       end,
		Columns:   cols,
		Rows:      rows,
	}
}
