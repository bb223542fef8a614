package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// convertConcurrent converts inputs in parallel with bounded concurrency
// and optional throttling.
func convertConcurrent(ctx context.Context, opts Options) error {
	limit := rate.Inf
	if opts.FilesPerSec > 0 {
		limit = rate.Limit(opts.FilesPerSec)
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrent)

	for i, input := range opts.Inputs {
		i, input := i, input
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			out, err := convertFile(input, opts)
			if err != nil {
				return fmt.Errorf("file %d/%d (%s): %w",
					i+1, len(opts.Inputs), filepath.Base(input), err)
			}

			slog.Info("converted",
				"file", fmt.Sprintf("%d/%d", i+1, len(opts.Inputs)),
				"output", filepath.Base(out))
			return nil
		})
	}

	return g.Wait()
}
