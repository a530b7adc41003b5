package models

// WorkbookResult is the workbook-level container with per-sheet results.
type WorkbookResult struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Roles maps every sheet name to its classified role.
	Roles map[string]SheetRole `json:"roles"`
	// Sheets holds results for rate-table candidates in workbook order.
	Sheets []SheetResult `json:"sheets"`
	// Errors lists per-sheet failures that did not stop extraction.
	Errors []string `json:"errors,omitempty"`
}
