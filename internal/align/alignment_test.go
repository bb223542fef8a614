package align

import (
	"errors"
	"math"
	"testing"
)

// approx compares times produced by chained float arithmetic.
func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// testWords builds the utterance "THE CAT SAT" with leading and medial
// silences, spanning [0, 0.73] seconds.
func testWords() []Word {
	return []Word{
		NewWord(Silence, []Phoneme{NewPhoneme(Silence, 0.00, 0.10)}),
		NewWord("THE", []Phoneme{
			NewPhoneme("DH", 0.10, 0.13),
			NewPhoneme("AH0", 0.13, 0.16),
		}),
		NewWord("CAT", []Phoneme{
			NewPhoneme("K", 0.16, 0.24),
			NewPhoneme("AE1", 0.24, 0.33),
			NewPhoneme("T", 0.33, 0.40),
		}),
		NewWord(Silence, []Phoneme{NewPhoneme(Silence, 0.40, 0.47)}),
		NewWord("SAT", []Phoneme{
			NewPhoneme("S", 0.47, 0.56),
			NewPhoneme("AE1", 0.56, 0.64),
			NewPhoneme("T", 0.64, 0.73),
		}),
	}
}

func testAlignment(t *testing.T) *Alignment {
	t.Helper()
	a, err := New(testWords())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name  string
		words []Word
	}{
		{
			"gap between words",
			[]Word{
				NewWord("A", []Phoneme{NewPhoneme("a", 0, 1)}),
				NewWord("B", []Phoneme{NewPhoneme("b", 1.5, 2)}),
			},
		},
		{
			"overlapping words",
			[]Word{
				NewWord("A", []Phoneme{NewPhoneme("a", 0, 1)}),
				NewWord("B", []Phoneme{NewPhoneme("b", 0.5, 2)}),
			},
		},
		{
			"gap between phonemes",
			[]Word{
				NewWord("A", []Phoneme{NewPhoneme("a", 0, 1), NewPhoneme("b", 1.2, 2)}),
			},
		},
		{
			"backwards phoneme",
			[]Word{
				NewWord("A", []Phoneme{NewPhoneme("a", 1, 0)}),
			},
		},
		{
			"word without phonemes",
			[]Word{NewWord("A", nil)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.words); !errors.Is(err, ErrInvalid) {
				t.Errorf("New error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestContiguity(t *testing.T) {
	a := testAlignment(t)

	words := a.Words()
	for i := 1; i < len(words); i++ {
		if words[i-1].End() != words[i].Start() {
			t.Errorf("word %d ends at %g, word %d starts at %g",
				i-1, words[i-1].End(), i, words[i].Start())
		}
	}

	phonemes := a.Phonemes()
	for i := 1; i < len(phonemes); i++ {
		if phonemes[i-1].End() != phonemes[i].Start() {
			t.Errorf("phoneme %d ends at %g, phoneme %d starts at %g",
				i-1, phonemes[i-1].End(), i, phonemes[i].Start())
		}
	}
}

func TestPhonemesFlattenWords(t *testing.T) {
	a := testAlignment(t)

	var flat []Phoneme
	for _, w := range a.Words() {
		flat = append(flat, w.Phonemes()...)
	}

	phonemes := a.Phonemes()
	if len(flat) != len(phonemes) {
		t.Fatalf("flattened %d phonemes, Phonemes() returned %d", len(flat), len(phonemes))
	}
	for i := range flat {
		if !flat[i].Equal(phonemes[i]) {
			t.Errorf("phoneme %d: %v != %v", i, flat[i], phonemes[i])
		}
	}
}

func TestDerivedTimes(t *testing.T) {
	a := testAlignment(t)

	start, err := a.Start()
	if err != nil || start != 0 {
		t.Errorf("Start() = %g, %v, want 0", start, err)
	}
	end, err := a.End()
	if err != nil || end != 0.73 {
		t.Errorf("End() = %g, %v, want 0.73", end, err)
	}
	duration, err := a.Duration()
	if err != nil || duration != 0.73 {
		t.Errorf("Duration() = %g, %v, want 0.73", duration, err)
	}
}

func TestEmptyAlignment(t *testing.T) {
	a, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	if _, err := a.Start(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Start() error = %v, want ErrEmpty", err)
	}
	if _, err := a.End(); !errors.Is(err, ErrEmpty) {
		t.Errorf("End() error = %v, want ErrEmpty", err)
	}
	if _, err := a.Duration(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Duration() error = %v, want ErrEmpty", err)
	}
}

func TestString(t *testing.T) {
	a := testAlignment(t)
	if got := a.String(); got != "THE CAT SAT" {
		t.Errorf("String() = %q, want %q", got, "THE CAT SAT")
	}
}

func TestFind(t *testing.T) {
	a := testAlignment(t)

	cases := []struct {
		text string
		want int
	}{
		{"THE CAT", 1},
		{"CAT", 2},
		// Medial silence is transparent.
		{"CAT SAT", 2},
		{"THE CAT SAT", 1},
		// Case-sensitive, exact labels only.
		{"the cat", -1},
		{"CA", -1},
		{"SAT THE", -1},
		{"DOG", -1},
		{"", -1},
	}
	for _, tc := range cases {
		if got := a.Find(tc.text); got != tc.want {
			t.Errorf("Find(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestWordAtTime(t *testing.T) {
	a := testAlignment(t)

	cases := []struct {
		time  float64
		label string
		found bool
	}{
		{-1, "", false},
		{0, Silence, true},
		{0.12, "THE", true},
		// A shared boundary belongs to the following word.
		{0.16, "CAT", true},
		{0.45, Silence, true},
		// The terminal end time resolves to the last word.
		{0.73, "SAT", true},
		{0.74, "", false},
	}
	for _, tc := range cases {
		w, ok := a.WordAtTime(tc.time)
		if ok != tc.found {
			t.Errorf("WordAtTime(%g) found = %t, want %t", tc.time, ok, tc.found)
			continue
		}
		if ok && w.String() != tc.label {
			t.Errorf("WordAtTime(%g) = %q, want %q", tc.time, w.String(), tc.label)
		}
	}
}

func TestPhonemeAtTime(t *testing.T) {
	a := testAlignment(t)

	cases := []struct {
		time  float64
		label string
		found bool
	}{
		{-1, "", false},
		{0.05, Silence, true},
		{0.14, "AH0", true},
		// Boundary between words.
		{0.16, "K", true},
		// Boundary within a word.
		{0.24, "AE1", true},
		// Terminal end time resolves to the last phoneme.
		{0.73, "T", true},
		{0.74, "", false},
	}
	for _, tc := range cases {
		p, ok := a.PhonemeAtTime(tc.time)
		if ok != tc.found {
			t.Errorf("PhonemeAtTime(%g) found = %t, want %t", tc.time, ok, tc.found)
			continue
		}
		if ok && p.String() != tc.label {
			t.Errorf("PhonemeAtTime(%g) = %q, want %q", tc.time, p.String(), tc.label)
		}
	}
}

func TestWordIndexAndRange(t *testing.T) {
	a := testAlignment(t)

	w, err := a.Word(2)
	if err != nil || w.String() != "CAT" {
		t.Errorf("Word(2) = %v, %v, want CAT", w, err)
	}
	if _, err := a.Word(-1); !errors.Is(err, ErrRange) {
		t.Errorf("Word(-1) error = %v, want ErrRange", err)
	}
	if _, err := a.Word(5); !errors.Is(err, ErrRange) {
		t.Errorf("Word(5) error = %v, want ErrRange", err)
	}
}

func TestSlice(t *testing.T) {
	a := testAlignment(t)

	s, err := a.Slice(1, 3)
	if err != nil {
		t.Fatalf("Slice(1, 3): %v", err)
	}

	want := a.Words()[1:3]
	got := s.Words()
	if len(got) != len(want) {
		t.Fatalf("slice has %d words, want %d", len(got), len(want))
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Errorf("slice word %d = %v, want %v", i, got[i], want[i])
		}
	}

	// Absolute times are preserved, not renormalized to zero.
	start, _ := s.Start()
	if start != 0.10 {
		t.Errorf("slice Start() = %g, want 0.10", start)
	}

	// The slice owns its storage: mutating it leaves the parent intact.
	if err := s.UpdateFrom(0, 5, nil); err != nil {
		t.Fatalf("UpdateFrom: %v", err)
	}
	if start, _ := a.Start(); start != 0 {
		t.Errorf("mutating the slice changed the parent: Start() = %g", start)
	}

	if _, err := a.Slice(3, 1); !errors.Is(err, ErrRange) {
		t.Errorf("Slice(3, 1) error = %v, want ErrRange", err)
	}
	if _, err := a.Slice(0, 6); !errors.Is(err, ErrRange) {
		t.Errorf("Slice(0, 6) error = %v, want ErrRange", err)
	}
}

func TestConcat(t *testing.T) {
	a := testAlignment(t)
	b := testAlignment(t)

	c, err := a.Concat(b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}

	da, _ := a.Duration()
	db, _ := b.Duration()
	dc, _ := c.Duration()
	if !approx(dc, da+db) {
		t.Errorf("concatenated duration = %g, want %g", dc, da+db)
	}

	// The second operand is shifted to begin at the first operand's end.
	words := c.Words()
	if words[a.Len()].Start() != 0.73 {
		t.Errorf("second operand starts at %g, want 0.73", words[a.Len()].Start())
	}

	// Contiguity holds across the seam and the operands are untouched.
	if _, err := New(words); err != nil {
		t.Errorf("concatenated alignment is invalid: %v", err)
	}
	if start, _ := b.Start(); start != 0 {
		t.Errorf("Concat shifted its operand: Start() = %g", start)
	}
}

func TestConcatEmptyOperand(t *testing.T) {
	a := testAlignment(t)
	empty, _ := New(nil)

	c, err := a.Concat(empty)
	if err != nil || !c.Equal(a) {
		t.Errorf("Concat(empty) = %v, %v, want copy of receiver", c, err)
	}
	c, err = empty.Concat(a)
	if err != nil || !c.Equal(a) {
		t.Errorf("empty.Concat(a) = %v, %v, want copy of argument", c, err)
	}
}

func TestEqual(t *testing.T) {
	a := testAlignment(t)
	b := testAlignment(t)
	if !a.Equal(b) {
		t.Error("identical alignments should be equal")
	}

	if err := b.Update(0, []float64{0.10000001}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if a.Equal(b) {
		t.Error("alignments with drifted times should not be equal")
	}

	short, _ := a.Slice(0, 4)
	if a.Equal(short) {
		t.Error("alignments of different lengths should not be equal")
	}
}

func TestFromTable(t *testing.T) {
	a, err := FromTable([]TableEntry{
		{Word: "THE", Phonemes: []Phoneme{
			NewPhoneme("DH", 0, 0.03),
			NewPhoneme("AH0", 0.03, 0.06),
		}},
		{Word: Silence, Phonemes: []Phoneme{NewPhoneme(Silence, 0.06, 0.1)}},
	})
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	if a.Len() != 2 || a.String() != "THE" {
		t.Errorf("FromTable built %d words, text %q", a.Len(), a.String())
	}

	_, err = FromTable([]TableEntry{
		{Word: "A", Phonemes: []Phoneme{NewPhoneme("a", 0, 1)}},
		{Word: "B", Phonemes: []Phoneme{NewPhoneme("b", 2, 3)}},
	})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("FromTable error = %v, want ErrInvalid", err)
	}
}
