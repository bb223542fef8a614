package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"paralign/internal/align"
)

// MLF reads and writes HTK master label files. Phoneme lines carry
// "start end phoneme score [word]" with times in 100 ns ticks; a fifth
// field marks the first phoneme of a new word. Header, label-path, and
// terminator lines are structural and skipped.
type MLF struct{}

// ticksPerSecond converts between MLF ticks (100 ns units) and seconds.
const ticksPerSecond = 1e7

// Parse decodes MLF content into a word sequence. Zero-duration segments
// are dropped; any non-structural line that is not a valid phoneme line is
// an error naming the line.
func (MLF) Parse(data []byte) ([]align.Word, error) {
	var words []align.Word
	var phonemes []align.Phoneme
	var label string
	started := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "#!MLF!#" || line == "." || strings.HasPrefix(line, "\"") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 && len(fields) != 5 {
			return nil, fmt.Errorf(
				"%w: line %d: expected 4 or 5 fields, got %d", ErrMalformed, lineno, len(fields))
		}
		start, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad start time %q", ErrMalformed, lineno, fields[0])
		}
		end, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad end time %q", ErrMalformed, lineno, fields[1])
		}
		start /= ticksPerSecond
		end /= ticksPerSecond

		// Aligners emit zero-duration silence fillers; drop them.
		if start >= end {
			continue
		}
		if len(fields) == 5 {
			if phonemes != nil {
				words = append(words, align.NewWord(label, phonemes))
				phonemes = nil
			}
			label = fields[4]
			started = true
		}
		if !started {
			return nil, fmt.Errorf(
				"%w: line %d: phoneme before the first word marker", ErrMalformed, lineno)
		}
		phonemes = append(phonemes, align.NewPhoneme(fields[2], start, end))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if phonemes != nil {
		words = append(words, align.NewWord(label, phonemes))
	}
	return words, nil
}

// Marshal encodes the alignment as a single-utterance MLF. The word label
// rides on the first phoneme line of each word, so parsing the output
// regroups the phonemes identically.
func (MLF) Marshal(a *align.Alignment) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("#!MLF!#\n")
	b.WriteString("\"*/utterance.lab\"\n")
	for _, w := range a.Words() {
		for i, p := range w.Phonemes() {
			start := int64(math.Round(p.Start() * ticksPerSecond))
			end := int64(math.Round(p.End() * ticksPerSecond))
			if i == 0 {
				fmt.Fprintf(&b, "%d %d %s 0.000000 %s\n", start, end, p.String(), w.String())
			} else {
				fmt.Fprintf(&b, "%d %d %s 0.000000\n", start, end, p.String())
			}
		}
	}
	b.WriteString(".\n")
	return b.Bytes(), nil
}
