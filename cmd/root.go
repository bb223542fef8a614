package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "paralign",
	Short: "Inspect and convert forced phoneme alignments",
	Long: `Paralign works with the output of forced speech aligners: time-aligned
word and phoneme sequences. It converts alignments between the JSON, MLF,
and TextGrid interchange formats and answers time, text, and frame-index
queries against them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
}
