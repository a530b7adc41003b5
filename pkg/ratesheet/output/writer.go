package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// Format is the tabular file format of the per-sheet output files.
type Format string

const (
	// FormatXLSX writes workbooks.
	FormatXLSX Format = "xlsx"
	// FormatCSV writes comma-separated files.
	FormatCSV Format = "csv"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be xlsx or csv)", s)
	}
}

// Sheet names inside the written workbooks.
const (
	TableSheet      = "Sheet1"
	ContextSheet    = "Context"
	SurchargesSheet = "rest"
)

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeName replaces characters that are not allowed in file names.
// Names that would resolve to the current or parent directory become "_".
func SanitizeName(name string) string {
	clean := unsafeChars.ReplaceAllString(name, "_")
	switch strings.TrimSpace(clean) {
	case "", ".", "..":
		return "_"
	}
	return clean
}

// DefaultDir returns the output directory for a workbook:
// <input dir>/<input stem>_processed.
func DefaultDir(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), stem+"_processed")
}

// SheetFiles lists the files written for one sheet.
type SheetFiles struct {
	Sheet      string `json:"sheet"`
	Dir        string `json:"dir"`
	Table      string `json:"table"`
	Context    string `json:"context"`
	Surcharges string `json:"surcharges"`
}

// WriteSheet writes the table, context and surcharge files of sheet into
// <dir>/<sanitized sheet name>/. It writes nothing and returns nil when the
// sheet has no table.
func WriteSheet(dir string, sheet *models.SheetResult, format Format) (*SheetFiles, error) {
	if !sheet.HasTable() {
		return nil, nil
	}

	folder := SanitizeName(sheet.Name)
	sheetDir := filepath.Join(dir, folder)
	if err := os.MkdirAll(sheetDir, 0755); err != nil {
		return nil, err
	}

	ext := "." + string(format)
	files := &SheetFiles{
		Sheet:      sheet.Name,
		Dir:        sheetDir,
		Table:      filepath.Join(sheetDir, folder+"_freight_table"+ext),
		Context:    filepath.Join(sheetDir, folder+"_context"+ext),
		Surcharges: filepath.Join(sheetDir, folder+"_surcharges"+ext),
	}

	table := append(models.Grid{headerRow(sheet.Table.Columns)}, sheet.Table.Rows...)
	if err := writeGrid(files.Table, TableSheet, table, format); err != nil {
		return nil, fmt.Errorf("write table: %w", err)
	}
	if err := writeGrid(files.Context, ContextSheet, sheet.Context.Flatten(), format); err != nil {
		return nil, fmt.Errorf("write context: %w", err)
	}
	if err := writeGrid(files.Surcharges, SurchargesSheet, sheet.Surcharges.Flatten(), format); err != nil {
		return nil, fmt.Errorf("write surcharges: %w", err)
	}
	return files, nil
}

func headerRow(columns []string) models.Row {
	row := make(models.Row, len(columns))
	for i, c := range columns {
		row[i] = models.Text(c)
	}
	return row
}

func writeGrid(path, sheetName string, g models.Grid, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(path, g)
	case FormatXLSX:
		return writeXLSX(path, sheetName, g)
	default:
		return fmt.Errorf("invalid format: %s", format)
	}
}

func writeXLSX(path, sheetName string, g models.Grid) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return err
		}
	}
	for i, row := range g {
		if row.IsEmpty() {
			continue
		}
		values := make([]interface{}, len(row))
		for j, c := range row {
			values[j] = cellValue(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func cellValue(c models.Cell) interface{} {
	switch c.Kind {
	case models.CellNumber:
		return c.Number
	case models.CellText:
		return c.Text
	default:
		return nil
	}
}

func writeCSV(path string, g models.Grid) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	w := csv.NewWriter(file)
	if err := w.WriteAll(g.Strings()); err != nil {
		return err
	}
	return w.Error()
}
