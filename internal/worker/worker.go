// Package worker runs batch alignment-file conversions with bounded
// parallelism.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"paralign/internal/codec"
)

// extensions maps a format name to the output file extension.
var extensions = map[string]string{
	"json":     ".json",
	"mlf":      ".mlf",
	"textgrid": ".TextGrid",
}

// Options configures a conversion run.
type Options struct {
	Inputs        []string
	OutputDir     string
	Format        string
	MaxConcurrent int
	FilesPerSec   float64
}

// Run converts every input file to the target format. Multiple inputs are
// processed concurrently unless MaxConcurrent is 1.
func Run(ctx context.Context, opts Options) error {
	if _, ok := extensions[strings.ToLower(opts.Format)]; !ok {
		return fmt.Errorf("%w: %q", codec.ErrUnsupported, opts.Format)
	}
	if len(opts.Inputs) == 0 {
		return fmt.Errorf("no input files")
	}

	slog.Info("converting alignments",
		"files", len(opts.Inputs),
		"format", opts.Format,
		"max_concurrent", opts.MaxConcurrent)

	if opts.MaxConcurrent <= 1 || len(opts.Inputs) == 1 {
		return convertSequential(ctx, opts)
	}
	return convertConcurrent(ctx, opts)
}

// outputPath derives the destination path for one input file.
func outputPath(input string, opts Options) (string, error) {
	ext := extensions[strings.ToLower(opts.Format)]
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext
	dir := opts.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	out := filepath.Join(dir, base)
	if out == input {
		return "", fmt.Errorf("output %s would overwrite input", out)
	}
	return out, nil
}

// convertFile loads one alignment and saves it in the target format.
func convertFile(input string, opts Options) (string, error) {
	out, err := outputPath(input, opts)
	if err != nil {
		return "", err
	}
	a, err := codec.Load(input)
	if err != nil {
		return "", err
	}
	if err := codec.Save(out, a); err != nil {
		return "", err
	}
	return out, nil
}
