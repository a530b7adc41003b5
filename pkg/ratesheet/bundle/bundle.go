// Package bundle assembles the context bundles written next to each
// extracted rate table.
package bundle

import (
	"fmt"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// NoContextSentinel replaces an empty general context bundle.
const NoContextSentinel = "No context found"

// Source is an auxiliary sheet read once per workbook.
type Source struct {
	Name string
	Role models.SheetRole
	Grid models.Grid
}

// Label returns the marker row text for a section taken from sheet.
// Roles other than the auxiliary ones label leftover rows of a rate sheet.
func Label(role models.SheetRole, sheet string) string {
	switch role {
	case models.RoleFreeTime:
		return fmt.Sprintf("=== FREETIME: %s ===", sheet)
	case models.RoleRules:
		return fmt.Sprintf("=== RULES/POLICY: %s ===", sheet)
	case models.RoleSurcharge:
		return fmt.Sprintf("=== surcharge: %s ===", sheet)
	default:
		return fmt.Sprintf("=== CONTEXT FROM %s ===", sheet)
	}
}

// NotesLabel returns the marker row text for the notes of sheet.
func NotesLabel(sheet string) string {
	return fmt.Sprintf("=== NOTES: %s ===", sheet)
}

// LeftoverRows returns the rows of g outside [start, end): everything
// before the table body followed by everything from the table end on.
// Bounds are clamped to the grid.
func LeftoverRows(g models.Grid, start, end int) models.Grid {
	n := len(g)
	start = clamp(start, 0, n)
	end = clamp(end, start, n)
	out := make(models.Grid, 0, n-(end-start))
	out = append(out, g[:start]...)
	out = append(out, g[end:]...)
	return out
}

// Assemble builds a bundle from the leftover rows of sheet followed by
// every source in order. Blank rows are dropped and sections left with
// no rows are omitted.
func Assemble(sheet string, leftovers models.Grid, sources []Source) models.Bundle {
	var b models.Bundle
	if rows := dropEmpty(leftovers); len(rows) > 0 {
		b.Sections = append(b.Sections, models.Section{Label: Label(models.RoleRateTable, sheet), Rows: rows})
	}
	for _, src := range sources {
		rows := dropEmpty(src.Grid)
		if len(rows) == 0 {
			continue
		}
		b.Sections = append(b.Sections, models.Section{Label: Label(src.Role, src.Name), Rows: rows})
	}
	return b
}

// General assembles the general context bundle from the free-time and
// rules sources. An empty result becomes the sentinel bundle.
func General(sheet string, leftovers models.Grid, sources []Source) models.Bundle {
	b := Assemble(sheet, leftovers, filter(sources, models.RoleFreeTime, models.RoleRules))
	if b.Empty() {
		return Sentinel()
	}
	return b
}

// Surcharges assembles the surcharge context bundle. It may be empty.
func Surcharges(sheet string, leftovers models.Grid, sources []Source) models.Bundle {
	return Assemble(sheet, leftovers, filter(sources, models.RoleSurcharge))
}

// AppendNotes adds the free-text notes of sheet (cell comments, text
// boxes) as one section placed after the sheet's own leftover rows and
// before any auxiliary sheet. A sentinel bundle is replaced.
func AppendNotes(b models.Bundle, sheet string, notes []string) models.Bundle {
	var rows models.Grid
	for _, n := range notes {
		if c := models.Text(n); !c.IsEmpty() {
			rows = append(rows, models.Row{c})
		}
	}
	if len(rows) == 0 {
		return b
	}
	section := models.Section{Label: NotesLabel(sheet), Rows: rows}
	if IsSentinel(b) {
		return models.Bundle{Sections: []models.Section{section}}
	}

	at := 0
	if len(b.Sections) > 0 && b.Sections[0].Label == Label(models.RoleRateTable, sheet) {
		at = 1
	}
	out := make([]models.Section, 0, len(b.Sections)+1)
	out = append(out, b.Sections[:at]...)
	out = append(out, section)
	out = append(out, b.Sections[at:]...)
	return models.Bundle{Sections: out}
}

// Sentinel returns the single-row bundle used when no context exists.
func Sentinel() models.Bundle {
	return models.Bundle{Sections: []models.Section{{Label: NoContextSentinel}}}
}

// IsSentinel reports whether b is the sentinel bundle.
func IsSentinel(b models.Bundle) bool {
	return len(b.Sections) == 1 && b.Sections[0].Label == NoContextSentinel && len(b.Sections[0].Rows) == 0
}

func filter(sources []Source, roles ...models.SheetRole) []Source {
	var out []Source
	for _, src := range sources {
		for _, r := range roles {
			if src.Role == r {
				out = append(out, src)
				break
			}
		}
	}
	return out
}

func dropEmpty(g models.Grid) models.Grid {
	var out models.Grid
	for _, r := range g {
		if !r.IsEmpty() {
			out = append(out, r)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
