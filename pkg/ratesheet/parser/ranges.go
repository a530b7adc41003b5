package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RangeRef returns the A1 reference of the block spanning rows
// [startRow, endRow) and columns [0, cols), all 0-based.
// It returns "" for an empty block.
func RangeRef(startRow, endRow, cols int) string {
	if endRow <= startRow || cols <= 0 || startRow < 0 {
		return ""
	}
	first, err := excelize.CoordinatesToCellName(1, startRow+1)
	if err != nil {
		return ""
	}
	last, err := excelize.CoordinatesToCellName(cols, endRow)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:%s", first, last)
}
