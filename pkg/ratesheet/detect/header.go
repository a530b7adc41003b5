package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// HeaderCandidate is the selected header row of a sheet.
type HeaderCandidate struct {
	// Row is the 0-based row index.
	Row int
	// Score is the composite score of the row.
	Score float64
	// Fallback is true when the row was chosen by keyword pair instead of score.
	Fallback bool
}

// fallbackPairs are keyword pairs that mark a header even below threshold.
var fallbackPairs = [][2]string{
	{"pol", "pod"},
	{"carrier", "rate"},
}

// LocateHeader scans the leading rows of g for the best header row.
// It returns false when no row qualifies, in which case the sheet holds no
// rate table. Ties go to the first row.
func (s *Scorer) LocateHeader(g models.Grid) (HeaderCandidate, bool) {
	p := s.params
	limit := min(len(g), p.ScanRows)
	if limit <= 0 {
		return HeaderCandidate{}, false
	}

	// Row scores are needed up to the window edge of the last scanned row.
	scored := min(len(g), limit+max(0, p.ContextWindow))
	rowScores := make([]float64, scored)
	for i := 0; i < scored; i++ {
		rowScores[i] = s.RowScore(g[i])
	}
	cached := func(i int) float64 { return rowScores[i] }

	composite := make([]float64, limit)
	best := HeaderCandidate{Row: -1}
	for i := 0; i < limit; i++ {
		cs := windowMean(i, p.ContextWindow, scored, cached)
		composite[i] = 0.7*rowScores[i] + 0.3*cs
		if composite[i] > best.Score && composite[i] >= p.HeaderThreshold {
			best = HeaderCandidate{Row: i, Score: composite[i]}
		}
	}
	if best.Row >= 0 {
		return best, true
	}

	for i := 0; i < limit; i++ {
		if composite[i] < p.FallbackMinScore {
			continue
		}
		text := RowText(g[i])
		for _, pair := range fallbackPairs {
			if strings.Contains(text, pair[0]) && strings.Contains(text, pair[1]) {
				return HeaderCandidate{Row: i, Score: composite[i], Fallback: true}, true
			}
		}
	}
	return HeaderCandidate{}, false
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// FlattenHeaders merges up to depth rows ending at hdr into one name per
// column. Blank, "nan" and "none" parts are skipped; a column with no parts
// is named Column_<index>.
func FlattenHeaders(g models.Grid, hdr, depth int, sep string) []string {
	if hdr < 0 || hdr >= len(g) {
		return nil
	}
	if depth < 1 {
		depth = 1
	}
	block := g[max(0, hdr-depth+1) : hdr+1]

	names := make([]string, block.Width())
	for c := range names {
		var parts []string
		for _, row := range block {
			if c >= len(row) || row[c].IsEmpty() {
				continue
			}
			part := strings.TrimSpace(row[c].String())
			if lower := strings.ToLower(part); part == "" || lower == "nan" || lower == "none" {
				continue
			}
			parts = append(parts, part)
		}
		name := strings.TrimSpace(multiSpace.ReplaceAllString(strings.Join(parts, sep), " "))
		if name == "" {
			name = fmt.Sprintf("Column_%d", c)
		}
		names[c] = name
	}
	return names
}
