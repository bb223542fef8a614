// Package align represents the output of a forced speech aligner: a
// time-ordered sequence of words, each decomposed into phonemes carrying
// exact start and end times in seconds. It provides the queries, frame
// conversions, and duration updates consumed by downstream feature
// pipelines; parsing and serialization live in internal/codec.
package align

import (
	"fmt"
	"strings"
)

// Alignment is an ordered sequence of contiguous words for one utterance.
// All derived alignments (slices, concatenations) own fresh storage, so
// distinct instances are safe for concurrent read-only use. Update mutates
// in place and needs external synchronization if the instance is shared.
type Alignment struct {
	words []Word
}

// New creates an alignment from a word sequence. The words are copied and
// validated: every word needs at least one phoneme, every phoneme must run
// forward, and consecutive phonemes and words must meet exactly. Gaps are
// never repaired; a discontiguous sequence is an ErrInvalid.
func New(words []Word) (*Alignment, error) {
	a := &Alignment{words: cloneWords(words)}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// TableEntry is one word of the tabular interchange form used by the JSON
// codec: the word label plus its phoneme triples in time order.
type TableEntry struct {
	Word     string
	Phonemes []Phoneme
}

// FromTable creates an alignment from the tabular interchange form.
func FromTable(entries []TableEntry) (*Alignment, error) {
	words := make([]Word, len(entries))
	for i, entry := range entries {
		words[i] = NewWord(entry.Word, entry.Phonemes)
	}
	return New(words)
}

// Len returns the number of words.
func (a *Alignment) Len() int { return len(a.words) }

// Word returns the i-th word.
func (a *Alignment) Word(i int) (Word, error) {
	if i < 0 || i >= len(a.words) {
		return Word{}, fmt.Errorf("word %d of %d: %w", i, len(a.words), ErrRange)
	}
	return a.words[i].clone(), nil
}

// Words returns the word sequence. The result owns its storage.
func (a *Alignment) Words() []Word {
	return cloneWords(a.words)
}

// Phonemes returns the phonemes of all words flattened in order.
func (a *Alignment) Phonemes() []Phoneme {
	var phonemes []Phoneme
	for _, w := range a.words {
		phonemes = append(phonemes, w.phonemes...)
	}
	return phonemes
}

// Start returns the start time of the first word in seconds.
func (a *Alignment) Start() (float64, error) {
	if len(a.words) == 0 {
		return 0, ErrEmpty
	}
	return a.words[0].Start(), nil
}

// End returns the end time of the last word in seconds.
func (a *Alignment) End() (float64, error) {
	if len(a.words) == 0 {
		return 0, ErrEmpty
	}
	return a.words[len(a.words)-1].End(), nil
}

// Duration returns the total duration in seconds.
func (a *Alignment) Duration() (float64, error) {
	start, err := a.Start()
	if err != nil {
		return 0, err
	}
	end, _ := a.End()
	return end - start, nil
}

// Slice returns a new alignment over the word sub-sequence [i, j). The
// words are copied and keep their absolute times; the slice is not
// renormalized to start at zero.
func (a *Alignment) Slice(i, j int) (*Alignment, error) {
	if i < 0 || j > len(a.words) || i > j {
		return nil, fmt.Errorf("slice [%d:%d] of %d words: %w", i, j, len(a.words), ErrRange)
	}
	return &Alignment{words: cloneWords(a.words[i:j])}, nil
}

// Concat returns a new alignment holding this alignment's words followed by
// other's, with other's copy time-shifted so that its first word begins at
// this alignment's end. When either operand is empty the shift is
// degenerate and the result is a copy of the other operand.
func (a *Alignment) Concat(other *Alignment) (*Alignment, error) {
	if len(a.words) == 0 {
		return &Alignment{words: cloneWords(other.words)}, nil
	}
	if len(other.words) == 0 {
		return &Alignment{words: cloneWords(a.words)}, nil
	}
	end, _ := a.End()
	shifted := &Alignment{words: cloneWords(other.words)}
	if err := shifted.UpdateFrom(0, end, nil); err != nil {
		return nil, err
	}
	return &Alignment{words: append(cloneWords(a.words), shifted.words...)}, nil
}

// Equal reports element-wise equality of the word sequences.
func (a *Alignment) Equal(other *Alignment) bool {
	if len(a.words) != len(other.words) {
		return false
	}
	for i := range a.words {
		if !a.words[i].Equal(other.words[i]) {
			return false
		}
	}
	return true
}

// String returns the transcript: the non-silence word labels joined by
// spaces.
func (a *Alignment) String() string {
	var labels []string
	for _, w := range a.words {
		if w.label != Silence {
			labels = append(labels, w.label)
		}
	}
	return strings.Join(labels, " ")
}

// Find returns the index of the word starting a contiguous run whose labels
// match the whitespace-tokenized text. Matching is case-sensitive on exact
// labels; silence words never match a token and are skipped without
// breaking the run. Returns -1 when the sequence is absent.
func (a *Alignment) Find(text string) int {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return -1
	}
	for i := range a.words {
		if a.words[i].label == Silence {
			continue
		}
		if a.matchAt(i, tokens) {
			return i
		}
	}
	return -1
}

func (a *Alignment) matchAt(i int, tokens []string) bool {
	k := i
	for _, token := range tokens {
		for k < len(a.words) && a.words[k].label == Silence {
			k++
		}
		if k >= len(a.words) || a.words[k].label != token {
			return false
		}
		k++
	}
	return true
}

// WordAtTime returns the word spoken at time t. Word intervals are closed
// at the start and open at the end, except the final word, which is closed
// at both ends. The second result is false when t is outside the alignment.
func (a *Alignment) WordAtTime(t float64) (Word, bool) {
	for i, w := range a.words {
		if t < w.Start() {
			return Word{}, false
		}
		if t < w.End() || (i == len(a.words)-1 && t == w.End()) {
			return w.clone(), true
		}
	}
	return Word{}, false
}

// PhonemeAtTime returns the phoneme spoken at time t under the same
// interval convention as WordAtTime.
func (a *Alignment) PhonemeAtTime(t float64) (Phoneme, bool) {
	for i, w := range a.words {
		if t < w.Start() {
			return Phoneme{}, false
		}
		if t < w.End() {
			return w.PhonemeAtTime(t)
		}
		if i == len(a.words)-1 && t == w.End() {
			return w.phonemes[len(w.phonemes)-1], true
		}
	}
	return Phoneme{}, false
}

// Update rewrites phoneme durations starting at the global phoneme index
// idx, anchored at that phoneme's current start time. durations[k] becomes
// the new duration of phoneme idx+k; phonemes past the last given duration
// keep their durations but shift so the alignment stays contiguous through
// to the end. Word boundaries follow from their phonemes. This is the only
// sanctioned mutation; every other transformation returns a new alignment.
func (a *Alignment) Update(idx int, durations []float64) error {
	anchor, err := a.phonemeStart(idx)
	if err != nil {
		return err
	}
	return a.UpdateFrom(idx, anchor, durations)
}

// UpdateFrom is Update with an explicit start time for phoneme idx.
// Phonemes before idx are untouched, so a start that differs from the
// predecessor's end leaves the alignment discontiguous at idx; callers
// re-anchoring mid-alignment must pass the predecessor's end time.
func (a *Alignment) UpdateFrom(idx int, start float64, durations []float64) error {
	if _, err := a.phonemeStart(idx); err != nil {
		return err
	}
	cursor := start
	k := 0
	for wi := range a.words {
		phonemes := a.words[wi].phonemes
		for pi := range phonemes {
			if k >= idx {
				duration := phonemes[pi].end - phonemes[pi].start
				if k-idx < len(durations) {
					duration = durations[k-idx]
				}
				phonemes[pi].start = cursor
				phonemes[pi].end = cursor + duration
				cursor = phonemes[pi].end
			}
			k++
		}
	}
	return nil
}

// Replace splices the words in [i, j) with the given words, then re-chains
// phoneme times from the splice point so the tail stays contiguous. The
// alignment's start time is preserved.
func (a *Alignment) Replace(i, j int, words []Word) error {
	if i < 0 || j > len(a.words) || i > j {
		return fmt.Errorf("replace [%d:%d] of %d words: %w", i, j, len(a.words), ErrRange)
	}
	var anchor float64
	switch {
	case i > 0:
		anchor = a.words[i-1].End()
	case len(a.words) > 0:
		anchor = a.words[0].Start()
	case len(words) > 0:
		anchor = words[0].Start()
	}
	idx := 0
	for _, w := range a.words[:i] {
		idx += len(w.phonemes)
	}
	spliced := cloneWords(a.words[:i])
	spliced = append(spliced, cloneWords(words)...)
	spliced = append(spliced, cloneWords(a.words[j:])...)
	a.words = spliced
	if len(a.words) == 0 || idx >= a.phonemeCount() {
		return nil
	}
	return a.UpdateFrom(idx, anchor, nil)
}

func (a *Alignment) phonemeCount() int {
	n := 0
	for _, w := range a.words {
		n += len(w.phonemes)
	}
	return n
}

// phonemeStart returns the start time of the global phoneme index idx.
func (a *Alignment) phonemeStart(idx int) (float64, error) {
	if idx >= 0 {
		k := idx
		for _, w := range a.words {
			if k < len(w.phonemes) {
				return w.phonemes[k].start, nil
			}
			k -= len(w.phonemes)
		}
	}
	return 0, fmt.Errorf("phoneme %d of %d: %w", idx, a.phonemeCount(), ErrRange)
}

func (a *Alignment) validate() error {
	for i, w := range a.words {
		if len(w.phonemes) == 0 {
			return fmt.Errorf("word %d (%q) has no phonemes: %w", i, w.label, ErrInvalid)
		}
		for j, p := range w.phonemes {
			if p.start > p.end {
				return fmt.Errorf(
					"word %d (%q) phoneme %d (%q) runs backwards [%g, %g]: %w",
					i, w.label, j, p.label, p.start, p.end, ErrInvalid)
			}
			if j > 0 && w.phonemes[j-1].end != p.start {
				return fmt.Errorf(
					"word %d (%q): phoneme %d ends at %g but phoneme %d starts at %g: %w",
					i, w.label, j-1, w.phonemes[j-1].end, j, p.start, ErrInvalid)
			}
		}
		if i > 0 && a.words[i-1].End() != w.Start() {
			return fmt.Errorf(
				"word %d (%q) ends at %g but word %d (%q) starts at %g: %w",
				i-1, a.words[i-1].label, a.words[i-1].End(), i, w.label, w.Start(), ErrInvalid)
		}
	}
	return nil
}

func cloneWords(words []Word) []Word {
	copied := make([]Word, len(words))
	for i, w := range words {
		copied[i] = w.clone()
	}
	return copied
}
