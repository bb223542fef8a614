package align

import "errors"

var (
	// ErrEmpty is returned by queries that are undefined on an alignment
	// with no words.
	ErrEmpty = errors.New("empty alignment")

	// ErrRange is returned for word or phoneme indices outside the
	// alignment.
	ErrRange = errors.New("index out of range")

	// ErrInvalid is returned when word or phoneme intervals are not
	// contiguous, overlap, or run backwards.
	ErrInvalid = errors.New("invalid alignment")

	// ErrLookup is returned when a phoneme label is missing from a
	// caller-supplied phoneme map.
	ErrLookup = errors.New("phoneme label not in map")
)
