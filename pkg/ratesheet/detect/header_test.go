package detect

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/vocab"
)

var (
	origins      = []string{"DEHAM", "NLRTM", "BEANR", "FRLEH"}
	destinations = []string{"CNSHA", "CNNGB", "SGSIN", "KRPUS"}
)

// rateSheet returns a sheet with a banner, a header at row 4, data rows
// 5..20, three blank rows and a trailing remark at row 24.
func rateSheet() models.Grid {
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
	return models.NewGrid(rows)
}

func TestLocateHeader_RateSheet(t *testing.T) {
	s := newTestScorer()

	hdr, ok := s.LocateHeader(rateSheet())

	require.True(t, ok)
	assert.Equal(t, 4, hdr.Row)
	assert.False(t, hdr.Fallback)
	assert.Greater(t, hdr.Score, DefaultParams().HeaderThreshold)
}

func TestLocateHeader_Deterministic(t *testing.T) {
	s := newTestScorer()
	g := rateSheet()

	first, ok1 := s.LocateHeader(g)
	second, ok2 := s.LocateHeader(g)

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestLocateHeader_NoHeader(t *testing.T) {
	s := newTestScorer()
	g := grid(
		[]interface{}{"Hello"},
		[]interface{}{"Please see below"},
		[]interface{}{1, 2, 3},
	)

	_, ok := s.LocateHeader(g)

	assert.False(t, ok)
	_, ok = s.LocateHeader(nil)
	assert.False(t, ok)
}

func TestLocateHeader_TieGoesToFirstRow(t *testing.T) {
	s := newTestScorer()
	header := []interface{}{"POL", "POD", "Rate"}
	rows := [][]interface{}{header}
	for i := 0; i < 7; i++ {
		rows = append(rows, []interface{}{})
	}
	rows = append(rows, header)

	hdr, ok := s.LocateHeader(models.NewGrid(rows))

	require.True(t, ok)
	assert.Equal(t, 0, hdr.Row)
}

func TestLocateHeader_OnlyScansLeadingRows(t *testing.T) {
	p := DefaultParams()
	p.ScanRows = 3
	s := NewScorer(vocab.Default(), p)
	g := grid(
		[]interface{}{"Hello"},
		[]interface{}{},
		[]interface{}{},
		[]interface{}{"POL", "POD", "Rate"},
	)

	_, ok := s.LocateHeader(g)

	assert.False(t, ok)
}

func TestLocateHeader_KeywordPairFallback(t *testing.T) {
	p := DefaultParams()
	p.HeaderThreshold = 1000
	s := NewScorer(vocab.Default(), p)
	g := grid(
		[]interface{}{"Quotation"},
		[]interface{}{"Carrier", "Rate"},
		[]interface{}{"MSC", 1200},
	)

	hdr, ok := s.LocateHeader(g)

	require.True(t, ok)
	assert.Equal(t, 1, hdr.Row)
	assert.True(t, hdr.Fallback)
}

func TestLocateHeader_CustomTermsCrossThreshold(t *testing.T) {
	g := grid([]interface{}{"Depot", 1200, 1500, 1800})

	_, ok := newTestScorer().LocateHeader(g)
	assert.False(t, ok)

	s := NewScorer(vocab.New(vocab.CustomTerms{Location: []string{"depot"}}), DefaultParams())
	hdr, ok := s.LocateHeader(g)
	require.True(t, ok)
	assert.Equal(t, 0, hdr.Row)
}

func TestFlattenHeaders(t *testing.T) {
	g := grid(
		[]interface{}{"Origin", "Ocean  Freight", nil, "nan"},
		[]interface{}{"POL", "20'", "40'", "None"},
	)

	tests := []struct {
		name     string
		hdr      int
		depth    int
		expected []string
	}{
		{"two rows", 1, 2, []string{"Origin POL", "Ocean Freight 20'", "40'", "Column_3"}},
		{"single row", 1, 1, []string{"POL", "20'", "40'", "Column_3"}},
		{"clipped at top", 0, 2, []string{"Origin", "Ocean Freight", "Column_2", "Column_3"}},
		{"zero depth", 1, 0, []string{"POL", "20'", "40'", "Column_3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenHeaders(g, tt.hdr, tt.depth, " ")
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("FlattenHeaders mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlattenHeaders_LengthAndNames(t *testing.T) {
	g := grid(
		[]interface{}{nil, nil, nil, nil, nil},
		[]interface{}{"A", nil, 2024, nil, "B"},
	)

	names := FlattenHeaders(g, 1, 2, " ")

	require.Len(t, names, 5)
	for i, n := range names {
		assert.NotEmpty(t, n, "column %d", i)
	}
	assert.Equal(t, "2024", names[2])
	assert.Nil(t, FlattenHeaders(g, 7, 2, " "))
}
