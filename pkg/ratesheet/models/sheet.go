package models

// SheetRole is the role assigned to a sheet from its name.
type SheetRole string

const (
	// RoleIgnored marks sheets listed by the caller to be skipped.
	RoleIgnored SheetRole = "ignored"
	// RoleFreeTime marks free-time, demurrage, detention and storage sheets.
	RoleFreeTime SheetRole = "freetime"
	// RoleRules marks rules, policy and condition sheets.
	RoleRules SheetRole = "rules"
	// RoleSurcharge marks surcharge and tariff sheets.
	RoleSurcharge SheetRole = "surcharge"
	// RoleRateTable marks sheets that may carry a rate table.
	RoleRateTable SheetRole = "rate_table"
)

// Auxiliary reports whether the role feeds a context bundle instead of
// being searched for a rate table.
func (r SheetRole) Auxiliary() bool {
	return r == RoleFreeTime || r == RoleRules || r == RoleSurcharge
}

// SheetResult is the extraction outcome for a single rate-bearing sheet.
type SheetResult struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Table is the extracted rate table; nil when no header was detected.
	Table *Table `json:"table,omitempty"`
	// HeaderScore is the composite score of the selected header row.
	HeaderScore float64 `json:"header_score,omitempty"`
	// Context is the general context bundle.
	Context Bundle `json:"context"`
	// Surcharges is the surcharge context bundle.
	Surcharges Bundle `json:"surcharges"`
}

// HasTable reports whether a non-empty table was extracted.
func (s *SheetResult) HasTable() bool {
	return s.Table != nil && !s.Table.Empty()
}
