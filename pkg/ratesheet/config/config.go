// Package config loads ratesheet settings from YAML or TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/classify"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/detect"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/output"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/vocab"
)

// Config holds all ratesheet settings.
type Config struct {
	IgnoredSheets []string          `yaml:"ignored_sheets" toml:"ignored_sheets"`
	CustomTerms   vocab.CustomTerms `yaml:"custom_terms" toml:"custom_terms"`
	Detect        detect.Params     `yaml:"detect" toml:"detect"`
	Classify      classify.Params   `yaml:"classify" toml:"classify"`
	Output        OutputConfig      `yaml:"output" toml:"output"`
	Watch         WatchConfig       `yaml:"watch" toml:"watch"`
	Workers       int               `yaml:"workers" toml:"workers"`
	LogLevel      string            `yaml:"log_level" toml:"log_level"`
}

// OutputConfig controls where and how per-sheet files are written.
type OutputConfig struct {
	// Dir is the output root. Empty means next to each input workbook.
	Dir    string `yaml:"dir" toml:"dir"`
	Format string `yaml:"format" toml:"format"`
}

// WatchConfig configures folder watching.
type WatchConfig struct {
	// Debounce is a Go duration string, e.g. "500ms".
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// Default returns the default configuration.
func Default() *Config {
	cp := classify.DefaultParams()
	// Similarity is not configurable; the extractor falls back to PartialRatio.
	cp.Similarity = nil
	return &Config{
		Detect:   detect.DefaultParams(),
		Classify: cp,
		Output: OutputConfig{
			Format: string(output.FormatXLSX),
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Workers:  ratesheet.DefaultWorkers,
		LogLevel: "info",
	}
}

// Load reads a configuration file over the defaults. Files ending in
// .toml are decoded as TOML, anything else as YAML. A missing file
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnvOverrides()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies RATESHEET_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RATESHEET_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("RATESHEET_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("RATESHEET_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RATESHEET_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.Detect.ScanRows < 1 {
		return fmt.Errorf("detect.scan_rows must be at least 1, got %d", c.Detect.ScanRows)
	}
	if c.Detect.HeaderDepth < 1 {
		return fmt.Errorf("detect.header_depth must be at least 1, got %d", c.Detect.HeaderDepth)
	}
	if c.Classify.Threshold < 0 || c.Classify.Threshold > 100 {
		return fmt.Errorf("classify.threshold must be within 0-100, got %d", c.Classify.Threshold)
	}
	return nil
}

// Format returns the parsed output format.
func (c *Config) Format() output.Format {
	f, err := output.ParseFormat(c.Output.Format)
	if err != nil {
		return output.FormatXLSX
	}
	return f
}

// DebounceDuration returns the parsed watch debounce interval.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.debounce: %w", err)
	}
	return d, nil
}

// Options converts the configuration to extraction options.
func (c *Config) Options(logger *zap.Logger) ratesheet.Options {
	return ratesheet.Options{
		IgnoredSheets: append([]string(nil), c.IgnoredSheets...),
		CustomTerms:   c.CustomTerms,
		Detect:        c.Detect,
		Classify:      c.Classify,
		Logger:        logger,
	}
}
