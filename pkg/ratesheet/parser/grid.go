// Package parser reads workbook sheets into typed grids.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// LoadGrid reads a sheet into a rectangular grid of typed cells.
// Merged ranges are unmerged by copying the top-left value into every
// covered cell.
func LoadGrid(f *excelize.File, sheetName string) (models.Grid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	raw := make([][]interface{}, len(rows))
	for i, row := range rows {
		raw[i] = make([]interface{}, len(row))
		for j, v := range row {
			raw[i][j] = parseValue(v)
		}
	}
	g := models.NewGrid(raw)

	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}
	for _, mc := range merges {
		g, err = unmerge(g, mc.GetStartAxis(), mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// unmerge fills the range start:end with the value of its top-left cell,
// growing the grid when the range reaches past the last row or column.
func unmerge(g models.Grid, start, end string) (models.Grid, error) {
	c1, r1, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return nil, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return nil, err
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}

	g = grow(g, r2, c2)
	val := g[r1-1][c1-1]
	for r := r1 - 1; r < r2; r++ {
		for c := c1 - 1; c < c2; c++ {
			g[r][c] = val
		}
	}
	return g, nil
}

// grow pads g to at least rows x cols, keeping it rectangular.
func grow(g models.Grid, rows, cols int) models.Grid {
	width := g.Width()
	if cols < width {
		cols = width
	}
	for len(g) < rows {
		g = append(g, nil)
	}
	for i, r := range g {
		if len(r) < cols {
			padded := make(models.Row, cols)
			copy(padded, r)
			g[i] = padded
		}
	}
	return g
}

// parseValue converts a raw cell string to a typed value: int64 for
// integers, float64 for finite decimals, nil for blank text, or the
// string itself.
func parseValue(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
