package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// convertSequential converts inputs one at a time.
func convertSequential(ctx context.Context, opts Options) error {
	for i, input := range opts.Inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		out, err := convertFile(input, opts)
		if err != nil {
			return fmt.Errorf("file %d/%d (%s): %w",
				i+1, len(opts.Inputs), filepath.Base(input), err)
		}

		slog.Info("converted",
			"file", fmt.Sprintf("%d/%d", i+1, len(opts.Inputs)),
			"output", filepath.Base(out))
	}
	return nil
}
