package align

// Silence is the reserved label for non-speech intervals. A silence
// phoneme or word is structurally identical to any other.
const Silence = "sp"

// Phoneme is a labeled time interval in seconds. Phonemes are immutable
// except through Alignment.Update, which rewrites boundary times in place.
type Phoneme struct {
	label string
	start float64
	end   float64
}

// NewPhoneme creates a phoneme from a label and start/end times in seconds.
func NewPhoneme(label string, start, end float64) Phoneme {
	return Phoneme{label: label, start: start, end: end}
}

// Start returns the start time in seconds.
func (p Phoneme) Start() float64 { return p.start }

// End returns the end time in seconds.
func (p Phoneme) End() float64 { return p.end }

// Duration returns the duration in seconds.
func (p Phoneme) Duration() float64 { return p.end - p.start }

// String returns the phoneme label.
func (p Phoneme) String() string { return p.label }

// Equal reports whether both phonemes have the same label and exactly the
// same boundary times. There is no tolerance: alignments re-derived through
// a lossy serialization may compare unequal.
func (p Phoneme) Equal(other Phoneme) bool {
	return p.label == other.label && p.start == other.start && p.end == other.end
}
