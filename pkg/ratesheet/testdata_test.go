package ratesheet

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

var (
	origins      = []string{"DEHAM", "NLRTM", "BEANR", "FRLEH"}
	destinations = []string{"CNSHA", "CNNGB", "SGSIN", "KRPUS"}
)

// writeWorkbook saves a rate workbook with a cover sheet, one rate sheet
// carrying a comment and a text box, a free-time sheet, a surcharge sheet
// and an internal sheet.
func writeWorkbook(t *testing.T, dir, name string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Cover"); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	setRows(t, f, "Cover", [][]interface{}{
		{"Ocean Freight Quotation"},
		{"Prepared for ACME Ltd"},
	})

	rows := [][]interface{}{
		{"ACME Shipping Lines"},
		{},
		{"Effective April 2025"},
		{},
		{"POL", "POD", "20' DC Rate", "40' HC Rate"},
	}
	for i := 0; i < 16; i++ {
		rows = append(rows, []interface{}{
			origins[i%len(origins)], destinations[i%len(destinations)], 1000 + 10*i, 1800 + 10*i,
		})
	}
	rows = append(rows, []interface{}{}, []interface{}{}, []interface{}{})
	rows = append(rows, []interface{}{"Rates are subject to GRI and PSS. All-in basis."})
	newSheet(t, f, "Asia Rates", rows)
	if err := f.AddComment("Asia Rates", excelize.Comment{
		Cell:      "C5",
		Author:    "desk",
		Paragraph: []excelize.RichTextRun{{Text: "USD per container"}},
	}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if err := f.AddShape("Asia Rates", &excelize.Shape{
		Cell:      "G2",
		Type:      "rect",
		Paragraph: []excelize.RichTextRun{{Text: "Valid until 30 June"}},
	}); err != nil {
		t.Fatalf("AddShape failed: %v", err)
	}

	newSheet(t, f, "Demurrage & Detention", [][]interface{}{
		{"Port", "Free days"},
		{"CNSHA", 14},
	})
	newSheet(t, f, "Surcharges", [][]interface{}{
		{"BAF", 120},
		{},
		{"PSS", 300},
	})
	newSheet(t, f, "Internal", [][]interface{}{
		{"do not send"},
	})

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func newSheet(t *testing.T, f *excelize.File, name string, rows [][]interface{}) {
	t.Helper()
	if _, err := f.NewSheet(name); err != nil {
		t.Fatalf("NewSheet(%q) failed: %v", name, err)
	}
	setRows(t, f, name, rows)
}

func setRows(t *testing.T, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow(%q, %s) failed: %v", sheet, cell, err)
		}
	}
}
