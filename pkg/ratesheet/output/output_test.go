package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/bundle"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

func sampleSheet(name string) *models.SheetResult {
	return &models.SheetResult{
		Name: name,
		Table: &models.Table{
			HeaderRow: 0,
			Start:     1,
			End:       3,
			Columns:   []string{"POL", "POD", "20' DC Rate"},
			Rows: models.NewGrid([][]interface{}{
				{"DEHAM", "CNSHA", 1000},
				{"NLRTM", "CNNGB", 1012.5},
			}),
		},
		Context: models.Bundle{Sections: []models.Section{
			{Label: "=== CONTEXT FROM " + name + " ===", Rows: models.NewGrid([][]interface{}{{"Valid April 2025"}})},
		}},
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Asia Rates", "Asia Rates"},
		{"Asia/Europe", "Asia_Europe"},
		{`a<b>c:d"e\f|g?h*i`, "a_b_c_d_e_f_g_h_i"},
		{"..", "_"},
		{".", "_"},
		{" .. ", "_"},
		{"", "_"},
		{"..Rates", "..Rates"},
	}

	for _, tt := range tests {
		if got := SanitizeName(tt.input); got != tt.expected {
			t.Errorf("SanitizeName(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestDefaultDir(t *testing.T) {
	got := DefaultDir(filepath.Join("in", "Q2 rates.xlsx"))

	assert.Equal(t, filepath.Join("in", "Q2 rates_processed"), got)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("json")
	assert.Error(t, err)
}

func TestWriteSheet_XLSX(t *testing.T) {
	dir := t.TempDir()

	files, err := WriteSheet(dir, sampleSheet("Asia/Europe"), FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Asia_Europe"), files.Dir)
	assert.Equal(t, filepath.Join(dir, "Asia_Europe", "Asia_Europe_freight_table.xlsx"), files.Table)

	f, err := excelize.OpenFile(files.Table)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(TableSheet)
	require.NoError(t, err)
	if diff := cmp.Diff([][]string{
		{"POL", "POD", "20' DC Rate"},
		{"DEHAM", "CNSHA", "1000"},
		{"NLRTM", "CNNGB", "1012.5"},
	}, rows); diff != "" {
		t.Errorf("table rows mismatch (-want +got):\n%s", diff)
	}

	ctx, err := excelize.OpenFile(files.Context)
	require.NoError(t, err)
	defer ctx.Close()
	rows, err = ctx.GetRows(ContextSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"=== CONTEXT FROM Asia/Europe ==="}, {"Valid April 2025"}}, rows)

	rest, err := excelize.OpenFile(files.Surcharges)
	require.NoError(t, err)
	defer rest.Close()
	assert.Equal(t, []string{SurchargesSheet}, rest.GetSheetList())
	rows, err = rest.GetRows(SurchargesSheet)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteSheet_CSV(t *testing.T) {
	dir := t.TempDir()
	sheet := sampleSheet("Asia")
	sheet.Context = bundle.Sentinel()

	files, err := WriteSheet(dir, sheet, FormatCSV)
	require.NoError(t, err)

	readCSV := func(path string) [][]string {
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		require.NoError(t, err)
		return records
	}

	assert.Equal(t, [][]string{
		{"POL", "POD", "20' DC Rate"},
		{"DEHAM", "CNSHA", "1000"},
		{"NLRTM", "CNNGB", "1012.5"},
	}, readCSV(files.Table))
	assert.Equal(t, [][]string{{bundle.NoContextSentinel}}, readCSV(files.Context))
	assert.Empty(t, readCSV(files.Surcharges))
}

func TestWriteSheet_DotNameStaysInsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "out")

	files, err := WriteSheet(dir, sampleSheet(".."), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "_"), files.Dir)
	assert.FileExists(t, filepath.Join(dir, "_", "__freight_table.csv"))
	_, err = os.Stat(filepath.Join(root, ".._freight_table.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteSheet_NoTable(t *testing.T) {
	dir := t.TempDir()

	files, err := WriteSheet(dir, &models.SheetResult{Name: "Cover"}, FormatXLSX)
	require.NoError(t, err)
	assert.Nil(t, files)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToJSON(t *testing.T) {
	wb := &models.WorkbookResult{
		BookName: "rates.xlsx",
		Roles:    map[string]models.SheetRole{"Asia": models.RoleRateTable},
		Sheets:   []models.SheetResult{*sampleSheet("Asia")},
	}

	data, err := ToJSON(wb, false)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "rates.xlsx", decoded["book_name"])

	pretty, err := ToJSON(wb, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"book_name\": \"rates.xlsx\"")
}

func TestSheetToJSON(t *testing.T) {
	data, err := SheetToJSON(sampleSheet("Asia"), false)
	require.NoError(t, err)

	var decoded struct {
		Name  string `json:"name"`
		Table struct {
			Columns []string        `json:"columns"`
			Rows    [][]interface{} `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Asia", decoded.Name)
	assert.Equal(t, []string{"POL", "POD", "20' DC Rate"}, decoded.Table.Columns)
	assert.Equal(t, []interface{}{"DEHAM", "CNSHA", float64(1000)}, decoded.Table.Rows[0])
}

func TestRecordWriter(t *testing.T) {
	var buf bytes.Buffer
	rw, err := NewRecordWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, rw.Write(map[string]int{"n": 1}))
	require.NoError(t, rw.Write(map[string]int{"n": 2}))
	require.NoError(t, rw.Close())
	require.NoError(t, rw.Close())

	var records []map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Equal(t, []map[string]int{{"n": 1}, {"n": 2}}, records)
	assert.Equal(t, 2, rw.Count())
	assert.ErrorIs(t, rw.Write(1), os.ErrClosed)
}

func TestRecordWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	rw, err := NewRecordWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	var records []interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Empty(t, records)
}

func TestRecordWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	rw, err := NewRecordWriter(&buf)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rw.Write(i))
		}()
	}
	wg.Wait()
	require.NoError(t, rw.Close())

	var records []int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Len(t, records, 50)
	assert.ElementsMatch(t, func() []int {
		out := make([]int, 50)
		for i := range out {
			out[i] = i
		}
		return out
	}(), records)
}

func TestStatusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status", "run.json")
	sf := NewStatusFile(path)
	fixed := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	sf.now = func() time.Time { return fixed }

	_, err := uuid.Parse(sf.RunID())
	require.NoError(t, err)

	require.NoError(t, sf.Processing("preprocessing", "rates.xlsx"))
	st, err := ReadStatus(path)
	require.NoError(t, err)
	assert.Equal(t, Status{
		RunID:     sf.RunID(),
		Status:    StatusProcessing,
		Step:      "preprocessing",
		Message:   "rates.xlsx",
		UpdatedAt: fixed,
	}, st)

	require.NoError(t, sf.Completed("/out/rates_processed", "2 sheets"))
	st, err = ReadStatus(path)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Empty(t, st.Step)
	assert.Equal(t, "/out/rates_processed", st.OutputFolder)

	require.NoError(t, sf.Failed(errors.New("disk full")))
	st, err = ReadStatus(path)
	require.NoError(t, err)
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "disk full", st.Error)
	assert.Equal(t, st, sf.Snapshot())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}
