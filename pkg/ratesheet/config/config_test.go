package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/detect"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/output"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "ratesheet.yaml", `
ignored_sheets:
  - Internal
  - Old Rates
custom_terms:
  location: [depot]
detect:
  header_threshold: 2.5
  lookback: 5
output:
  format: csv
workers: 2
watch:
  debounce: 1s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Internal", "Old Rates"}, cfg.IgnoredSheets)
	assert.Equal(t, []string{"depot"}, cfg.CustomTerms.Location)
	assert.Equal(t, 2.5, cfg.Detect.HeaderThreshold)
	assert.Equal(t, 5, cfg.Detect.Lookback)
	assert.Equal(t, detect.DefaultParams().ScanRows, cfg.Detect.ScanRows, "unset keys keep defaults")
	assert.Equal(t, output.FormatCSV, cfg.Format())
	assert.Equal(t, 2, cfg.Workers)
	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
	assert.Equal(t, 70, cfg.Classify.Threshold)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "ratesheet.toml", `
ignored_sheets = ["Internal"]
workers = 8

[custom_terms]
container = ["flat rack"]

[detect]
scan_rows = 30
trim_trailing = false

[classify]
threshold = 80
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Internal"}, cfg.IgnoredSheets)
	assert.Equal(t, []string{"flat rack"}, cfg.CustomTerms.Container)
	assert.Equal(t, 30, cfg.Detect.ScanRows)
	assert.False(t, cfg.Detect.TrimTrailing)
	assert.Equal(t, 80, cfg.Classify.Threshold)
	assert.NotEmpty(t, cfg.Classify.FreeTimeKeywords)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad yaml", "c.yaml", "workers: [1"},
		{"bad toml", "c.toml", "workers = "},
		{"bad format", "c.yaml", "output:\n  format: pdf\n"},
		{"zero workers", "c.yaml", "workers: 0\n"},
		{"bad debounce", "c.yaml", "watch:\n  debounce: soon\n"},
		{"bad level", "c.yaml", "log_level: loud\n"},
		{"bad threshold", "c.toml", "[classify]\nthreshold = 101\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RATESHEET_FORMAT", "csv")
	t.Setenv("RATESHEET_WORKERS", "3")
	t.Setenv("RATESHEET_OUTPUT_DIR", "/tmp/out")

	cfg, err := Load(writeFile(t, "c.yaml", "workers: 9\n"))
	require.NoError(t, err)

	assert.Equal(t, output.FormatCSV, cfg.Format())
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
}

func TestConfig_Options(t *testing.T) {
	cfg := Default()
	cfg.IgnoredSheets = []string{"Internal"}
	cfg.CustomTerms.Location = []string{"depot"}

	opts := cfg.Options(nil)

	assert.Equal(t, []string{"Internal"}, opts.IgnoredSheets)
	assert.Equal(t, []string{"depot"}, opts.CustomTerms.Location)
	assert.Equal(t, cfg.Detect, opts.Detect)
	assert.Equal(t, 70, opts.Classify.Threshold)
}
