// Package models defines data structures for rate table extraction.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CellKind is the type of a cell value.
type CellKind int

const (
	// CellEmpty is a cell with no value.
	CellEmpty CellKind = iota
	// CellText is a cell holding non-blank text.
	CellText
	// CellNumber is a cell holding a numeric value.
	CellNumber
)

// Cell is a single typed spreadsheet value.
// The zero value is an empty cell, which is distinct from a zero number
// or an empty string.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Text returns a text cell. Blank text yields an empty cell.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// IsEmpty reports whether the cell has no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell value. Empty cells render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as JSON numbers, text as strings and empty
// cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(c.Text)
	case CellNumber:
		return json.Marshal(c.Number)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*c = Text(t)
	case float64:
		*c = Number(t)
	default:
		*c = Cell{}
	}
	return nil
}
