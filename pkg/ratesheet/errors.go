package ratesheet

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a readable workbook.
var ErrInvalidFormat = errors.New("invalid workbook format")

// ErrNoSheets indicates the workbook has no sheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ExtractionError represents a failure on a single sheet.
type ExtractionError struct {
	SheetName string
	Component string // "load", "classify", "detect"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
