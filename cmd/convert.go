package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"paralign/internal/config"
	"paralign/internal/worker"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input-file>...",
	Short: "Convert alignment files between formats",
	Long: `Convert one or more alignment files to another interchange format. The
input format is selected by each file's extension; supported formats are
json, mlf, and textgrid. Multiple inputs are converted in parallel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var (
	format        string
	outputDir     string
	maxConcurrent int
	filesPerSec   float64
)

func init() {
	defaults := config.Default()

	convertCmd.Flags().StringVarP(&format, "to", "t", defaults.OutputFormat, "target format: json, mlf, textgrid")
	convertCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: alongside each input)")
	convertCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", defaults.MaxConcurrent, "max concurrent conversions")
	convertCmd.Flags().Float64Var(&filesPerSec, "files-per-sec", defaults.FilesPerSec, "throttle conversions per second (0 = unthrottled)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// Flags beat config; config beats built-in defaults.
	if !cmd.Flags().Changed("to") {
		format = cfg.OutputFormat
	}
	if !cmd.Flags().Changed("max-concurrent") {
		maxConcurrent = cfg.MaxConcurrent
	}
	if !cmd.Flags().Changed("files-per-sec") {
		filesPerSec = cfg.FilesPerSec
	}

	for _, input := range args {
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("file not found: %s", input)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return worker.Run(ctx, worker.Options{
		Inputs:        args,
		OutputDir:     outputDir,
		Format:        format,
		MaxConcurrent: maxConcurrent,
		FilesPerSec:   filesPerSec,
	})
}
