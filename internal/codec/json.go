package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"paralign/internal/align"
)

// JSON reads and writes the JSON interchange form: an object mapping each
// word label to its [phoneme_label, start, end] triples. Key order is word
// order and repeated labels are legal, so the object is decoded as a token
// stream rather than into a Go map.
type JSON struct{}

// Parse decodes the JSON object into a word sequence.
func (JSON) Parse(data []byte) ([]align.Word, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrMalformed)
	}

	var words []align.Word
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		label := tok.(string)

		var rows [][]json.RawMessage
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("%w: word %q: %v", ErrMalformed, label, err)
		}
		phonemes := make([]align.Phoneme, len(rows))
		for i, row := range rows {
			if len(row) != 3 {
				return nil, fmt.Errorf(
					"%w: word %q phoneme %d: expected [label, start, end], got %d elements",
					ErrMalformed, label, i, len(row))
			}
			var phonemeLabel string
			var start, end float64
			if err := json.Unmarshal(row[0], &phonemeLabel); err != nil {
				return nil, fmt.Errorf("%w: word %q phoneme %d: bad label: %v", ErrMalformed, label, i, err)
			}
			if err := json.Unmarshal(row[1], &start); err != nil {
				return nil, fmt.Errorf("%w: word %q phoneme %d: bad start time: %v", ErrMalformed, label, i, err)
			}
			if err := json.Unmarshal(row[2], &end); err != nil {
				return nil, fmt.Errorf("%w: word %q phoneme %d: bad end time: %v", ErrMalformed, label, i, err)
			}
			phonemes[i] = align.NewPhoneme(phonemeLabel, start, end)
		}
		words = append(words, align.NewWord(label, phonemes))
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return words, nil
}

// Marshal encodes the alignment as an indented JSON object. Times are
// formatted with the shortest representation that round-trips exactly.
func (JSON) Marshal(a *align.Alignment) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("{")
	for i, w := range a.Words() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    ")
		key, err := json.Marshal(w.String())
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteString(": [")
		for j, p := range w.Phonemes() {
			if j > 0 {
				b.WriteString(",")
			}
			label, err := json.Marshal(p.String())
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&b, "\n        [%s, %s, %s]", label, ftoa(p.Start()), ftoa(p.End()))
		}
		b.WriteString("\n    ]")
	}
	if a.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}

// ftoa formats a time with the minimal digits that parse back to the same
// float64.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
