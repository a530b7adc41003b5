package ratesheet

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// DefaultWorkers is the default number of workbooks extracted at once.
const DefaultWorkers = 4

// HandleFunc is called with each extracted workbook from the worker that
// produced it. It must be safe for concurrent use.
type HandleFunc func(ctx context.Context, path string, wb *models.WorkbookResult) error

// ExtractAll extracts the workbooks at paths using at most workers
// goroutines. Results are returned in input order. The first error from
// extraction or handle cancels the remaining work and is returned, as is
// the cancellation of ctx.
// handle may be nil.
func ExtractAll(ctx context.Context, paths []string, opts Options, workers int, handle HandleFunc) ([]*models.WorkbookResult, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}
	ex := NewExtractor(opts)
	log := opts.logger()
	results := make([]*models.WorkbookResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			wb, err := ex.ExtractFile(path)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}
			results[i] = wb
			if handle != nil {
				if err := handle(gctx, path, wb); err != nil {
					return fmt.Errorf("handle %s: %w", path, err)
				}
			}
			log.Debug("workbook done", zap.String("path", path), zap.Int("sheets", len(wb.Sheets)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
