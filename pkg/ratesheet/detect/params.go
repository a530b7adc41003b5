// Package detect locates the header and the bounds of a rate table inside a
// sheet grid. Every function here is pure: it reads the grid and returns a
// decision, and is safe to call from many goroutines at once.
package detect

// Params holds parameters for header location and table end detection.
type Params struct {
	// ScanRows is how many leading rows are searched for a header.
	ScanRows int `json:"scan_rows" yaml:"scan_rows" toml:"scan_rows"`
	// HeaderThreshold is the minimum composite score of an accepted header.
	HeaderThreshold float64 `json:"header_threshold" yaml:"header_threshold" toml:"header_threshold"`
	// FallbackMinScore is the minimum composite score for a keyword-pair fallback header.
	FallbackMinScore float64 `json:"fallback_min_score" yaml:"fallback_min_score" toml:"fallback_min_score"`
	// ContextWindow is the half-window of the contextual score.
	ContextWindow int `json:"context_window" yaml:"context_window" toml:"context_window"`
	// HeaderDepth is how many physical rows are merged into column names.
	HeaderDepth int `json:"header_depth" yaml:"header_depth" toml:"header_depth"`
	// HeaderSeparator joins the parts of a multi-row column name.
	HeaderSeparator string `json:"header_separator" yaml:"header_separator" toml:"header_separator"`
	// Lookback is the number of bad rows that ends a table.
	Lookback int `json:"lookback" yaml:"lookback" toml:"lookback"`
	// PatternTolerance is how many signature changes are accepted before rows turn bad.
	PatternTolerance int `json:"pattern_tolerance" yaml:"pattern_tolerance" toml:"pattern_tolerance"`
	// RecoveryThreshold is the good-row streak that forgives earlier bad rows.
	RecoveryThreshold int `json:"recovery_threshold" yaml:"recovery_threshold" toml:"recovery_threshold"`
	// RecoveryForgiveness is how many bad rows a recovered streak forgives.
	RecoveryForgiveness int `json:"recovery_forgiveness" yaml:"recovery_forgiveness" toml:"recovery_forgiveness"`
	// MinDensityRatio scales the densest early row into the density threshold.
	MinDensityRatio float64 `json:"min_density_ratio" yaml:"min_density_ratio" toml:"min_density_ratio"`
	// MinDensity is the floor of the density threshold.
	MinDensity int `json:"min_density" yaml:"min_density" toml:"min_density"`
	// TrimTrailing ends the table after its last good row when the sheet
	// ends inside a run of bad rows. A sparse closing row such as a
	// "Total" line then falls into the context instead of the table.
	TrimTrailing bool `json:"trim_trailing" yaml:"trim_trailing" toml:"trim_trailing"`
	// MaxScanRows caps the rows walked after the header; 0 disables the cap.
	MaxScanRows int `json:"max_scan_rows" yaml:"max_scan_rows" toml:"max_scan_rows"`
}

// DefaultParams returns default detection parameters.
func DefaultParams() Params {
	return Params{
		ScanRows:            50,
		HeaderThreshold:     1.5,
		FallbackMinScore:    0.5,
		ContextWindow:       3,
		HeaderDepth:         2,
		HeaderSeparator:     " ",
		Lookback:            8,
		PatternTolerance:    2,
		RecoveryThreshold:   3,
		RecoveryForgiveness: 2,
		MinDensityRatio:     0.4,
		MinDensity:          3,
		TrimTrailing:        true,
		MaxScanRows:         100000,
	}
}

// FillDefaults returns p with every unset required field taken from
// DefaultParams. A zero Params becomes DefaultParams. Otherwise fields
// where zero is a usable setting (tolerances, window, separator, flags,
// MaxScanRows) are kept as given.
func (p Params) FillDefaults() Params {
	d := DefaultParams()
	if p == (Params{}) {
		return d
	}
	if p.ScanRows <= 0 {
		p.ScanRows = d.ScanRows
	}
	if p.HeaderThreshold <= 0 {
		p.HeaderThreshold = d.HeaderThreshold
	}
	if p.HeaderDepth <= 0 {
		p.HeaderDepth = d.HeaderDepth
	}
	if p.Lookback <= 0 {
		p.Lookback = d.Lookback
	}
	if p.RecoveryThreshold <= 0 {
		p.RecoveryThreshold = d.RecoveryThreshold
	}
	if p.MinDensityRatio <= 0 {
		p.MinDensityRatio = d.MinDensityRatio
	}
	if p.MinDensity <= 0 {
		p.MinDensity = d.MinDensity
	}
	return p
}
