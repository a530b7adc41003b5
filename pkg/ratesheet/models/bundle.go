package models

// Section is one labelled block of a context bundle.
type Section struct {
	// Label is the marker text written in the row preceding Rows.
	Label string `json:"label"`
	// Rows is the section content.
	Rows Grid `json:"rows"`
}

// Bundle is an ordered list of sections.
type Bundle struct {
	Sections []Section `json:"sections,omitempty"`
}

// Empty reports whether the bundle has no sections.
func (b Bundle) Empty() bool {
	return len(b.Sections) == 0
}

// Flatten renders the bundle top to bottom as a single grid: a one-cell
// label row before each section's rows. Rows keep their own widths.
func (b Bundle) Flatten() Grid {
	var out Grid
	for _, s := range b.Sections {
		out = append(out, Row{Text(s.Label)})
		out = append(out, s.Rows...)
	}
	return out
}
