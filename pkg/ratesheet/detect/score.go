package detect

import (
	"math"
	"strings"
	"unicode"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/vocab"
)

const (
	// twoCategoryBonus applies when at least two term categories match.
	twoCategoryBonus = 1.5
	// threeCategoryBonus applies on top of twoCategoryBonus when three or
	// more categories match, for x3 in total.
	// TODO: confirm with the rate desk whether the x3 stacking is intended.
	threeCategoryBonus = 2.0
	// numericBonus applies when three or more text cells contain digits.
	numericBonus = 1.3
)

// Scorer scores rows for freight-header likelihood against a vocabulary.
type Scorer struct {
	vocab  *vocab.Vocabulary
	params Params
}

// NewScorer creates a Scorer. A nil vocabulary means vocab.Default().
func NewScorer(v *vocab.Vocabulary, p Params) *Scorer {
	if v == nil {
		v = vocab.Default()
	}
	return &Scorer{vocab: v, params: p}
}

// Params returns the scorer's parameters.
func (s *Scorer) Params() Params {
	return s.params
}

// Normalize lower-cases text, replaces punctuation with spaces and
// collapses runs of whitespace.
func Normalize(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// RowText joins the normalized text of every non-empty cell.
func RowText(row models.Row) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		if c.IsEmpty() {
			continue
		}
		if n := Normalize(c.String()); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

// RowScore returns the freight-likelihood score of a single row.
// The result is never negative and is 0 for an empty row.
func (s *Scorer) RowScore(row models.Row) float64 {
	text := RowText(row)
	if text == "" {
		return 0
	}

	score := 0.0
	categories := 0
	for _, c := range vocab.Categories {
		n := s.vocab.Set(c).CountIn(text)
		if n > 0 {
			categories++
		}
		score += float64(n) * c.Weight()
	}

	if categories >= 2 {
		score *= twoCategoryBonus
	}
	if categories >= 3 {
		score *= threeCategoryBonus
	}
	if digitTextCells(row) >= 3 {
		score *= numericBonus
	}
	return score * (0.7 + 0.3*math.Min(1, float64(len(row))/10))
}

func digitTextCells(row models.Row) int {
	n := 0
	for _, c := range row {
		if c.Kind == models.CellText && strings.IndexFunc(c.Text, unicode.IsDigit) >= 0 {
			n++
		}
	}
	return n
}

// ContextualScore averages the row scores in [idx-w, idx+w] clipped to the
// grid, with the row at idx counted at twice its score.
func (s *Scorer) ContextualScore(g models.Grid, idx, w int) float64 {
	return windowMean(idx, w, len(g), func(i int) float64 { return s.RowScore(g[i]) })
}

func windowMean(idx, w, n int, score func(int) float64) float64 {
	lo := max(0, idx-w)
	hi := min(n, idx+w+1)
	if lo >= hi {
		return 0
	}
	sum := 0.0
	for i := lo; i < hi; i++ {
		sc := score(i)
		if i == idx {
			sc *= 2
		}
		sum += sc
	}
	return sum / float64(hi-lo)
}
