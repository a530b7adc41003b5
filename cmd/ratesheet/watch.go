package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/watch"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Extract every workbook written into a folder",
		Long: `watch keeps running and extracts each .xlsx or .xlsm file created or
rewritten in dir once it has stopped changing. Output goes where the root
command would put it.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runWatch,
		SilenceUsage: true,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ex := ratesheet.NewExtractor(cfg.Options(logger))
	p := &processor{cfg: cfg}
	handler := func(ctx context.Context, path string) error {
		wb, err := ex.ExtractFile(path)
		if err != nil {
			return err
		}
		return p.handle(ctx, path, wb)
	}

	w, err := watch.New(args[0], debounce, handler, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()
	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	stats := w.Stats()
	logger.Info("watch finished",
		zap.Int("processed", stats.Processed),
		zap.Int("failed", stats.Failed))
	return nil
}
