package detect

import (
	"math"
	"strings"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// Signature returns the type pattern of a row: one symbol per cell,
// 'n' for numbers, 't' for text and 'e' for empty cells.
func Signature(row models.Row) string {
	var b strings.Builder
	b.Grow(len(row))
	for _, c := range row {
		switch c.Kind {
		case models.CellNumber:
			b.WriteByte('n')
		case models.CellText:
			b.WriteByte('t')
		default:
			b.WriteByte('e')
		}
	}
	return b.String()
}

// DetectTableEnd walks rows from start and returns the exclusive end row of
// the contiguous table. The result is always within [start, len(g)].
//
// A row is bad when it is sparser than the density threshold, or when its
// signature differs from the last good row after PatternTolerance changes
// have already been seen. Lookback bad rows end the table; a streak of
// RecoveryThreshold good rows forgives RecoveryForgiveness bad rows.
func DetectTableEnd(g models.Grid, start int, p Params) int {
	n := len(g)
	if start < 0 {
		start = 0
	}
	if start >= n {
		return n
	}

	initMax := 0
	for i := start; i < min(n, start+p.Lookback); i++ {
		initMax = max(initMax, g[i].NonEmpty())
	}
	threshold := math.Max(float64(p.MinDensity), float64(initMax)*p.MinDensityRatio)

	var (
		bad, goodStreak, violations int
		lastSig                     string
		haveSig                     bool
		lastGood                    = -1
	)
	for i := start; i < n; i++ {
		if p.MaxScanRows > 0 && i-start >= p.MaxScanRows {
			return i
		}

		row := g[i]
		sig := Signature(row)
		isBad := false
		if float64(row.NonEmpty()) < threshold {
			isBad = true
		} else if haveSig && sig != lastSig {
			violations++
			if violations > p.PatternTolerance {
				isBad = true
			}
		}

		if isBad {
			bad++
			goodStreak = 0
		} else {
			goodStreak++
			violations = max(0, violations-1)
			lastSig, haveSig = sig, true
			lastGood = i
			if goodStreak >= p.RecoveryThreshold {
				bad = max(0, bad-p.RecoveryForgiveness)
			}
		}

		if p.Lookback > 0 && bad >= p.Lookback {
			return max(start, i-bad+1)
		}
	}

	if p.TrimTrailing && lastGood >= 0 {
		return lastGood + 1
	}
	return n
}
