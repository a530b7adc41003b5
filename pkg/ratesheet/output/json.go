// Package output persists extraction results.
package output

import (
	"encoding/json"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// ToJSON serializes a workbook result.
func ToJSON(wb *models.WorkbookResult, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// ResultsToJSON serializes several workbook results as one array.
func ResultsToJSON(wbs []*models.WorkbookResult, pretty bool) ([]byte, error) {
	return marshal(wbs, pretty)
}

// SheetToJSON serializes a single sheet result.
func SheetToJSON(sheet *models.SheetResult, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
