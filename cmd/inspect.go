package cmd

import (
	"fmt"

	"paralign/internal/codec"
	"paralign/internal/config"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize and query an alignment file",
	Long: `Print the transcript, timing, and word/phoneme counts of an alignment
file. Optionally query the word and phoneme active at a time, locate a word
sequence, or print per-word frame bounds.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	queryTime  float64
	findText   string
	showBounds bool
	sampleRate int
	hopsize    int
)

func init() {
	defaults := config.Default()

	inspectCmd.Flags().Float64Var(&queryTime, "time", 0, "print the word and phoneme at this time in seconds")
	inspectCmd.Flags().StringVar(&findText, "find", "", "locate a space-separated word sequence")
	inspectCmd.Flags().BoolVar(&showBounds, "bounds", false, "print per-word frame bounds")
	inspectCmd.Flags().IntVar(&sampleRate, "sample-rate", defaults.SampleRate, "audio sample rate for frame bounds")
	inspectCmd.Flags().IntVar(&hopsize, "hopsize", defaults.Hopsize, "samples between frames for frame bounds")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("sample-rate") {
		sampleRate = cfg.SampleRate
	}
	if !cmd.Flags().Changed("hopsize") {
		hopsize = cfg.Hopsize
	}

	a, err := codec.Load(args[0])
	if err != nil {
		return err
	}

	start, err := a.Start()
	if err != nil {
		return err
	}
	end, _ := a.End()
	duration, _ := a.Duration()

	fmt.Printf("text:      %s\n", a)
	fmt.Printf("start:     %gs\n", start)
	fmt.Printf("end:       %gs\n", end)
	fmt.Printf("duration:  %gs\n", duration)
	fmt.Printf("words:     %d\n", a.Len())
	fmt.Printf("phonemes:  %d\n", len(a.Phonemes()))

	if cmd.Flags().Changed("time") {
		word, ok := a.WordAtTime(queryTime)
		if !ok {
			fmt.Printf("at %gs:    no word (outside alignment)\n", queryTime)
		} else {
			phoneme, _ := a.PhonemeAtTime(queryTime)
			fmt.Printf("at %gs:    word %q, phoneme %q\n", queryTime, word.String(), phoneme.String())
		}
	}

	if findText != "" {
		index := a.Find(findText)
		if index < 0 {
			fmt.Printf("find %q:   not found\n", findText)
		} else {
			fmt.Printf("find %q:   word index %d\n", findText, index)
		}
	}

	if showBounds {
		words := a.Words()
		for i, span := range a.WordBounds(sampleRate, hopsize) {
			fmt.Printf("%4d  [%6d, %6d)  %s\n", i, span.Start, span.End, words[i].String())
		}
	}
	return nil
}
