package align

import "fmt"

// phonemeKey identifies a phoneme by its times and label for rate lookups.
type phonemeKey struct {
	start float64
	end   float64
	label string
}

// PerPhonemeRate returns the phoneme-wise relative speed of target to
// source: the ratio of each target phoneme's duration to the corresponding
// source phoneme's duration. Both alignments must have the same number of
// phonemes.
func PerPhonemeRate(source, target *Alignment) ([]float64, error) {
	src := source.Phonemes()
	dst := target.Phonemes()
	if len(src) != len(dst) {
		return nil, fmt.Errorf(
			"alignments have %d and %d phonemes: %w", len(src), len(dst), ErrInvalid)
	}
	rates := make([]float64, len(src))
	for i := range src {
		rates[i] = dst[i].Duration() / src[i].Duration()
	}
	return rates, nil
}

// PerFrameRate returns the frame-wise relative speed of target to source,
// sampled at evenly spaced times across the source alignment. frames is
// the number of audio frames; pass 0 to derive it from the source end time,
// sample rate, and hopsize.
func PerFrameRate(source, target *Alignment, sampleRate, hopsize, frames int) ([]float64, error) {
	perPhoneme, err := PerPhonemeRate(source, target)
	if err != nil {
		return nil, err
	}
	phonemes := source.Phonemes()
	rateMap := make(map[phonemeKey]float64, len(phonemes))
	for i, p := range phonemes {
		rateMap[phonemeKey{p.Start(), p.End(), p.String()}] = perPhoneme[i]
	}

	start, err := source.Start()
	if err != nil {
		return nil, err
	}
	end, _ := source.End()
	if frames <= 0 {
		frames = 1 + FrameIndex(end, sampleRate, hopsize)
	}

	rates := make([]float64, frames)
	for i := range rates {
		t := start
		switch {
		case i == frames-1 && frames > 1:
			t = end
		case frames > 1:
			t = start + (end-start)*float64(i)/float64(frames-1)
		}
		p, ok := source.PhonemeAtTime(t)
		if !ok {
			return nil, fmt.Errorf("time %g outside alignment: %w", t, ErrRange)
		}
		rates[i] = rateMap[phonemeKey{p.Start(), p.End(), p.String()}]
	}
	return rates, nil
}
