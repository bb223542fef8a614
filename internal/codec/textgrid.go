package codec

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"paralign/internal/align"
)

// TextGrid reads and writes Praat TextGrid annotations holding a word
// interval tier and a phone interval tier. Both the long ("ooTextFile")
// and short formats are read; writing emits the long format with the phone
// tier first. The "sil" phone mark maps to the silence label.
type TextGrid struct{}

// Parse decodes TextGrid content, pairing each word interval with the
// phone intervals it contains. The format does not guarantee cross-tier
// consistency, so a word whose bounds disagree with the span of its phones
// is rejected rather than snapped.
func (TextGrid) Parse(data []byte) ([]align.Word, error) {
	grid, err := parseTextGrid(data)
	if err != nil {
		return nil, err
	}
	if len(grid) < 2 {
		return nil, fmt.Errorf("%w: expected a word tier and a phone tier, got %d tiers",
			ErrMalformed, len(grid))
	}

	var wordTier, phonTier *tgTier
	switch {
	case strings.Contains(grid[0].name, "word") && strings.Contains(grid[1].name, "phon"):
		wordTier, phonTier = &grid[0], &grid[1]
	case strings.Contains(grid[0].name, "phon") && strings.Contains(grid[1].name, "word"):
		phonTier, wordTier = &grid[0], &grid[1]
	default:
		return nil, fmt.Errorf(
			"%w: cannot determine which tiers correspond to words and phones (%q, %q)",
			ErrMalformed, grid[0].name, grid[1].name)
	}

	var words []align.Word
	next := 0
	for _, interval := range wordTier.intervals {
		var phonemes []align.Phoneme
		for next < len(phonTier.intervals) && phonTier.intervals[next].max <= interval.max {
			phone := phonTier.intervals[next]
			mark := phone.mark
			if mark == "sil" {
				mark = align.Silence
			}
			phonemes = append(phonemes, align.NewPhoneme(mark, phone.min, phone.max))
			next++
		}
		if len(phonemes) == 0 {
			return nil, fmt.Errorf(
				"%w: word %q [%g, %g] contains no phone intervals",
				align.ErrInvalid, interval.mark, interval.min, interval.max)
		}
		first, last := phonemes[0], phonemes[len(phonemes)-1]
		if first.Start() != interval.min || last.End() != interval.max {
			return nil, fmt.Errorf(
				"%w: word %q spans [%g, %g] but its phones span [%g, %g]",
				align.ErrInvalid, interval.mark, interval.min, interval.max,
				first.Start(), last.End())
		}
		words = append(words, align.NewWord(interval.mark, phonemes))
	}
	if next != len(phonTier.intervals) {
		return nil, fmt.Errorf(
			"%w: %d phone intervals extend beyond the last word",
			align.ErrInvalid, len(phonTier.intervals)-next)
	}
	return words, nil
}

// Marshal encodes the alignment as a long-format TextGrid with a phone
// tier and a word tier.
func (TextGrid) Marshal(a *align.Alignment) ([]byte, error) {
	start, err := a.Start()
	if err != nil {
		return nil, err
	}
	end, _ := a.End()

	phonTier := tgTier{name: "phone"}
	for _, p := range a.Phonemes() {
		mark := p.String()
		if mark == align.Silence {
			mark = "sil"
		}
		phonTier.intervals = append(phonTier.intervals, tgInterval{p.Start(), p.End(), mark})
	}
	wordTier := tgTier{name: "word"}
	for _, w := range a.Words() {
		wordTier.intervals = append(wordTier.intervals, tgInterval{w.Start(), w.End(), w.String()})
	}

	var b bytes.Buffer
	b.WriteString("File type = \"ooTextFile\"\n")
	b.WriteString("Object class = \"TextGrid\"\n\n")
	fmt.Fprintf(&b, "xmin = %s\n", ftoa(start))
	fmt.Fprintf(&b, "xmax = %s\n", ftoa(end))
	b.WriteString("tiers? <exists>\n")
	b.WriteString("size = 2\n")
	b.WriteString("item []:\n")
	for i, tier := range []tgTier{phonTier, wordTier} {
		fmt.Fprintf(&b, "\titem [%d]:\n", i+1)
		b.WriteString("\t\tclass = \"IntervalTier\"\n")
		fmt.Fprintf(&b, "\t\tname = \"%s\"\n", tier.name)
		fmt.Fprintf(&b, "\t\txmin = %s\n", ftoa(tier.intervals[0].min))
		fmt.Fprintf(&b, "\t\txmax = %s\n", ftoa(tier.intervals[len(tier.intervals)-1].max))
		fmt.Fprintf(&b, "\t\tintervals: size = %d\n", len(tier.intervals))
		for j, interval := range tier.intervals {
			fmt.Fprintf(&b, "\t\t\tintervals [%d]:\n", j+1)
			fmt.Fprintf(&b, "\t\t\t\txmin = %s\n", ftoa(interval.min))
			fmt.Fprintf(&b, "\t\t\t\txmax = %s\n", ftoa(interval.max))
			fmt.Fprintf(&b, "\t\t\t\ttext = \"%s\"\n", strings.ReplaceAll(interval.mark, "\"", "\"\""))
		}
	}
	return b.Bytes(), nil
}

// Low-level TextGrid reading. Mirrors the quirks of files produced in the
// wild: long files key every value as `name = value`, short files hold
// bare values, and some short files carry a long-style header.

type tgInterval struct {
	min  float64
	max  float64
	mark string
}

type tgTier struct {
	name      string
	intervals []tgInterval
}

type tgReader struct {
	lines []string
	pos   int
	short bool
}

func (r *tgReader) line() (string, error) {
	if r.pos >= len(r.lines) {
		return "", fmt.Errorf("%w: unexpected end of file at line %d", ErrMalformed, r.pos+1)
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

var (
	tgFileType = regexp.MustCompile(`File type = "([\w ]+)"`)
	tgLongStr  = regexp.MustCompile(`(?s)^.*? = "(.*)"$`)
	tgLongNum  = regexp.MustCompile(`^.*? = (.*)$`)
	tgMarkLong = regexp.MustCompile(`(?s)^\s*(?:text|mark) = "(.*)"\s*$`)
	tgMarkShrt = regexp.MustCompile(`(?s)^"(.*)"\s*$`)
)

// str extracts a quoted value from a line in either format.
func (r *tgReader) str() (string, error) {
	line, err := r.line()
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if r.short {
		if strings.HasPrefix(line, "\"") && strings.HasSuffix(line, "\"") && len(line) >= 2 {
			return line[1 : len(line)-1], nil
		}
		return "", fmt.Errorf("%w: expected quoted value, got %q", ErrMalformed, line)
	}
	m := tgLongStr.FindStringSubmatch(line)
	if m == nil {
		return "", fmt.Errorf("%w: expected quoted value, got %q", ErrMalformed, line)
	}
	return m[1], nil
}

// num extracts a numeric value from a line in either format.
func (r *tgReader) num() (float64, error) {
	line, err := r.line()
	if err != nil {
		return 0, err
	}
	return parseTGNumber(line, r.short)
}

func parseTGNumber(line string, short bool) (float64, error) {
	line = strings.TrimSpace(line)
	text := line
	if !short {
		m := tgLongNum.FindStringSubmatch(line)
		if m == nil {
			return 0, fmt.Errorf("%w: expected numeric value, got %q", ErrMalformed, line)
		}
		text = m[1]
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad numeric value %q", ErrMalformed, line)
	}
	return v, nil
}

// mark reads an interval text, joining continuation lines until the quote
// count balances, and undoing doubled-quote escapes.
func (r *tgReader) mark() (string, error) {
	line, err := r.line()
	if err != nil {
		return "", err
	}
	for strings.Count(line, "\"")%2 == 1 {
		next, err := r.line()
		if err != nil {
			return "", err
		}
		line += "\n" + next
	}
	pattern := tgMarkLong
	if r.short {
		pattern = tgMarkShrt
		line = strings.TrimSpace(line)
	}
	m := pattern.FindStringSubmatch(line)
	if m == nil {
		return "", fmt.Errorf("%w: expected interval text, got %q", ErrMalformed, line)
	}
	return strings.ReplaceAll(m[1], "\"\"", "\""), nil
}

func parseTextGrid(data []byte) ([]tgTier, error) {
	r := &tgReader{lines: strings.Split(string(data), "\n")}

	// Header: file type, object class, blank line.
	header, err := r.line()
	if err != nil {
		return nil, err
	}
	m := tgFileType.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("%w: not a TextGrid header: %q", ErrMalformed, strings.TrimSpace(header))
	}
	r.short = strings.Contains(m[1], "short")
	if _, err := r.line(); err != nil {
		return nil, err
	}
	if _, err := r.line(); err != nil {
		return nil, err
	}

	// Some short files carry a long-style header; sniff the xmin line.
	xminLine, err := r.line()
	if err != nil {
		return nil, err
	}
	if !r.short {
		if _, err := parseTGNumber(xminLine, false); err != nil {
			r.short = true
		}
	}
	if _, err := parseTGNumber(xminLine, r.short); err != nil {
		return nil, err
	}
	if _, err := r.num(); err != nil { // xmax
		return nil, err
	}
	if _, err := r.line(); err != nil { // tiers? <exists>
		return nil, err
	}
	size, err := r.num()
	if err != nil {
		return nil, err
	}
	if !r.short {
		if _, err := r.line(); err != nil { // item []:
			return nil, err
		}
	}

	tiers := make([]tgTier, 0, int(size))
	for t := 0; t < int(size); t++ {
		if !r.short {
			if _, err := r.line(); err != nil { // item [n]:
				return nil, err
			}
		}
		class, err := r.str()
		if err != nil {
			return nil, err
		}
		if class != "IntervalTier" {
			return nil, fmt.Errorf("%w: unsupported tier class %q", ErrMalformed, class)
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		if _, err := r.num(); err != nil { // tier xmin
			return nil, err
		}
		if _, err := r.num(); err != nil { // tier xmax
			return nil, err
		}
		count, err := r.num()
		if err != nil {
			return nil, err
		}
		tier := tgTier{name: name}
		for i := 0; i < int(count); i++ {
			if !r.short {
				if _, err := r.line(); err != nil { // intervals [n]:
					return nil, err
				}
			}
			min, err := r.num()
			if err != nil {
				return nil, err
			}
			max, err := r.num()
			if err != nil {
				return nil, err
			}
			mark, err := r.mark()
			if err != nil {
				return nil, err
			}
			// Praat pads tiers with zero-width intervals; drop them.
			if min < max {
				tier.intervals = append(tier.intervals, tgInterval{min, max, mark})
			}
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}
