// Package main provides the CLI entry point for ratesheet.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/config"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/output"
)

var (
	configPath   string
	ignoreSheets []string
	outputDir    string
	format       string
	workers      int
	statusPath   string
	manifestPath string
	outputPath   string
	printJSON    bool
	pretty       bool
	verbose      bool

	logger *zap.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ratesheet [input.xlsx...]",
		Short: "Extract rate tables and context from freight rate workbooks",
		Long: `ratesheet locates the rate table in every sheet of a freight rate workbook,
writes it with its surrounding context and surcharge notes to a per-sheet folder,
and reports what it found as JSON.`,
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: setupLogger,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE:         run,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (.yaml, .yml or .toml)")
	pf.StringSliceVar(&ignoreSheets, "ignore", nil, "Sheet names to skip (repeatable)")
	pf.StringVar(&outputDir, "output-dir", "", "Output root (default: <input dir>/<input stem>_processed)")
	pf.StringVar(&format, "format", "xlsx", "Per-sheet file format: xlsx or csv")
	pf.IntVar(&workers, "workers", ratesheet.DefaultWorkers, "Workbooks processed in parallel")
	pf.StringVar(&statusPath, "status-file", "", "Write run status JSON to this file")
	pf.StringVar(&manifestPath, "manifest", "", "Write one JSON record per written sheet to this file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the JSON summary to this file")
	rootCmd.Flags().BoolVar(&printJSON, "json", false, "Print the JSON summary to stdout")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(newWatchCmd())
	return rootCmd
}

func setupLogger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	zc := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	zc.Level = level
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ignore") {
		cfg.IgnoredSheets = append(cfg.IgnoredSheets, ignoreSheets...)
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// workbookDir returns the folder receiving the per-sheet files of input.
func workbookDir(root, input string) string {
	dir := output.DefaultDir(input)
	if root == "" {
		return dir
	}
	return filepath.Join(root, filepath.Base(dir))
}

// manifestRecord is one line of the manifest written while workbooks run.
type manifestRecord struct {
	RunID     string             `json:"run_id"`
	Book      string             `json:"book"`
	Sheet     string             `json:"sheet"`
	HeaderRow int                `json:"header_row"`
	Range     string             `json:"range,omitempty"`
	Rows      int                `json:"rows"`
	Files     *output.SheetFiles `json:"files"`
}

// processor writes the files of extracted workbooks and records them in
// the manifest.
type processor struct {
	cfg      *config.Config
	runID    string
	manifest *output.RecordWriter

	mu      sync.Mutex
	written int
}

func (p *processor) handle(ctx context.Context, path string, wb *models.WorkbookResult) error {
	dir := workbookDir(p.cfg.Output.Dir, path)
	for i := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		sheet := &wb.Sheets[i]
		files, err := output.WriteSheet(dir, sheet, p.cfg.Format())
		if err != nil {
			return fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
		if files == nil {
			logger.Debug("no table, nothing written", zap.String("book", wb.BookName), zap.String("sheet", sheet.Name))
			continue
		}

		p.mu.Lock()
		p.written++
		p.mu.Unlock()
		logger.Info("sheet written", zap.String("book", wb.BookName), zap.String("sheet", sheet.Name), zap.String("dir", files.Dir))

		if p.manifest != nil {
			rec := manifestRecord{
				RunID:     p.runID,
				Book:      wb.BookName,
				Sheet:     sheet.Name,
				HeaderRow: sheet.Table.HeaderRow,
				Range:     sheet.Table.Range,
				Rows:      len(sheet.Table.Rows),
				Files:     files,
			}
			if err := p.manifest.Write(rec); err != nil {
				return fmt.Errorf("manifest: %w", err)
			}
		}
	}
	return nil
}

func run(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var status *output.StatusFile
	runID := ""
	if statusPath != "" {
		status = output.NewStatusFile(statusPath)
		runID = status.RunID()
		if err := status.Processing("preprocessing", strings.Join(args, ", ")); err != nil {
			return fmt.Errorf("failed to write status: %w", err)
		}
		defer func() {
			if err != nil {
				if serr := status.Failed(err); serr != nil {
					logger.Error("failed to write status", zap.Error(serr))
				}
			}
		}()
	}

	p := &processor{cfg: cfg, runID: runID}
	if manifestPath != "" {
		f, err := os.Create(manifestPath)
		if err != nil {
			return fmt.Errorf("failed to create manifest: %w", err)
		}
		defer f.Close()
		if p.manifest, err = output.NewRecordWriter(f); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		defer p.manifest.Close()
	}

	opts := cfg.Options(logger.With(zap.String("run_id", runID)))
	results, err := ratesheet.ExtractAll(ctx, args, opts, cfg.Workers, p.handle)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if err := writeSummary(results); err != nil {
		return err
	}

	if status != nil {
		folder := workbookDir(cfg.Output.Dir, args[0])
		if len(args) > 1 {
			folder = filepath.Dir(folder)
		}
		msg := fmt.Sprintf("%d sheet(s) written from %d workbook(s)", p.written, len(results))
		if err := status.Completed(folder, msg); err != nil {
			return fmt.Errorf("failed to write status: %w", err)
		}
	}
	return nil
}

func writeSummary(results []*models.WorkbookResult) error {
	if outputPath == "" && !printJSON {
		return nil
	}

	var data []byte
	var err error
	if len(results) == 1 {
		data, err = output.ToJSON(results[0], pretty)
	} else {
		data, err = output.ResultsToJSON(results, pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if printJSON {
		fmt.Println(string(data))
	}
	return nil
}
