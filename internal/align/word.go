package align

import "fmt"

// Word is a labeled, ordered sequence of contiguous phonemes. Its start and
// end times are derived from its phonemes; a word always has at least one
// phoneme (a silence word is a single silence phoneme spanning the word).
type Word struct {
	label    string
	phonemes []Phoneme
}

// NewWord creates a word from a label and its phonemes. The phoneme slice
// is copied; contiguity is checked when the word enters an Alignment.
func NewWord(label string, phonemes []Phoneme) Word {
	copied := make([]Phoneme, len(phonemes))
	copy(copied, phonemes)
	return Word{label: label, phonemes: copied}
}

// Start returns the start time of the first phoneme in seconds.
func (w Word) Start() float64 { return w.phonemes[0].start }

// End returns the end time of the last phoneme in seconds.
func (w Word) End() float64 { return w.phonemes[len(w.phonemes)-1].end }

// Duration returns the word duration in seconds.
func (w Word) Duration() float64 { return w.End() - w.Start() }

// Len returns the number of phonemes.
func (w Word) Len() int { return len(w.phonemes) }

// Phoneme returns the i-th phoneme.
func (w Word) Phoneme(i int) (Phoneme, error) {
	if i < 0 || i >= len(w.phonemes) {
		return Phoneme{}, fmt.Errorf("phoneme %d of %d: %w", i, len(w.phonemes), ErrRange)
	}
	return w.phonemes[i], nil
}

// Phonemes returns the phonemes in order. The returned slice is a copy and
// may be ranged over repeatedly or retained by the caller.
func (w Word) Phonemes() []Phoneme {
	copied := make([]Phoneme, len(w.phonemes))
	copy(copied, w.phonemes)
	return copied
}

// PhonemeAtTime returns the phoneme whose interval contains t. Intervals
// are closed at the start and open at the end, except the final phoneme,
// which is closed at both ends so a query at the word's terminal end time
// still resolves. The second result is false when t falls outside the word.
func (w Word) PhonemeAtTime(t float64) (Phoneme, bool) {
	for i, p := range w.phonemes {
		if t < p.start {
			return Phoneme{}, false
		}
		if t < p.end || (i == len(w.phonemes)-1 && t == p.end) {
			return p, true
		}
	}
	return Phoneme{}, false
}

// String returns the word label.
func (w Word) String() string { return w.label }

// Equal reports whether both words have the same label and element-wise
// equal phoneme sequences.
func (w Word) Equal(other Word) bool {
	if w.label != other.label || len(w.phonemes) != len(other.phonemes) {
		return false
	}
	for i := range w.phonemes {
		if !w.phonemes[i].Equal(other.phonemes[i]) {
			return false
		}
	}
	return true
}

// clone returns a word with its own phoneme storage.
func (w Word) clone() Word {
	return NewWord(w.label, w.phonemes)
}
