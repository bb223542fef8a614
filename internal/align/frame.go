package align

import (
	"fmt"
	"math"
)

// Span is a half-open [Start, End) range of frame indices.
type Span struct {
	Start int
	End   int
}

// FrameIndex converts a time in seconds to a frame index for features
// extracted every hopsize samples at the given sample rate. Times exactly
// halfway between frames round away from zero (math.Round); this is the
// single rounding rule for all time-to-frame conversion in this package.
func FrameIndex(t float64, sampleRate, hopsize int) int {
	return int(math.Round(t * float64(sampleRate) / float64(hopsize)))
}

// WordBounds returns the frame index range of each word. Every boundary
// frame is derived once from the shared word edges, so the end frame of
// each word equals the start frame of the next: the spans partition the
// alignment's frame range with no gap or overlap.
func (a *Alignment) WordBounds(sampleRate, hopsize int) []Span {
	if len(a.words) == 0 {
		return nil
	}
	edges := make([]float64, 0, len(a.words)+1)
	edges = append(edges, a.words[0].Start())
	for _, w := range a.words {
		edges = append(edges, w.End())
	}
	return edgeSpans(edges, sampleRate, hopsize)
}

// PhonemeBounds returns the frame index range of each phoneme across all
// words, with the same shared-edge guarantee as WordBounds.
func (a *Alignment) PhonemeBounds(sampleRate, hopsize int) []Span {
	phonemes := a.Phonemes()
	if len(phonemes) == 0 {
		return nil
	}
	edges := make([]float64, 0, len(phonemes)+1)
	edges = append(edges, phonemes[0].Start())
	for _, p := range phonemes {
		edges = append(edges, p.End())
	}
	return edgeSpans(edges, sampleRate, hopsize)
}

func edgeSpans(edges []float64, sampleRate, hopsize int) []Span {
	frames := make([]int, len(edges))
	for i, edge := range edges {
		frames[i] = FrameIndex(edge, sampleRate, hopsize)
	}
	spans := make([]Span, len(edges)-1)
	for i := range spans {
		spans[i] = Span{Start: frames[i], End: frames[i+1]}
	}
	return spans
}

// FramewisePhonemeIndices returns, for each frame time, the phonemeMap
// index of the phoneme active at that time. When times is nil, frames are
// sampled every hopsize seconds from the alignment start across [0,
// duration). Explicit times must lie inside the alignment; a resolved label
// absent from phonemeMap is an ErrLookup.
func (a *Alignment) FramewisePhonemeIndices(
	phonemeMap map[string]int,
	hopsize float64,
	times []float64,
) ([]int, error) {
	if times == nil {
		start, err := a.Start()
		if err != nil {
			return nil, err
		}
		duration, _ := a.Duration()
		if hopsize <= 0 {
			return nil, fmt.Errorf("hopsize %g must be positive: %w", hopsize, ErrRange)
		}
		frames := int(math.Ceil(duration/hopsize - 1e-9))
		times = make([]float64, frames)
		for k := range times {
			times[k] = start + float64(k)*hopsize
		}
	}
	indices := make([]int, len(times))
	for i, t := range times {
		p, ok := a.PhonemeAtTime(t)
		if !ok {
			return nil, fmt.Errorf("time %g outside alignment: %w", t, ErrRange)
		}
		index, ok := phonemeMap[p.String()]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrLookup, p.String())
		}
		indices[i] = index
	}
	return indices, nil
}
