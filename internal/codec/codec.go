// Package codec parses and serializes phoneme alignment interchange
// formats. Each format registers a stateless Codec under its file
// extension; Load and Save dispatch on the extension of the given path.
package codec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"paralign/internal/align"
)

var (
	// ErrUnsupported is returned for file extensions with no registered
	// codec, before any I/O is attempted.
	ErrUnsupported = errors.New("unsupported alignment format")

	// ErrMalformed is returned for file content that cannot be parsed.
	ErrMalformed = errors.New("malformed alignment file")
)

// Codec is a pure parse/serialize pair for one interchange format.
type Codec interface {
	// Parse decodes file content into a word sequence. Contiguity is
	// validated by the Alignment constructor, not here.
	Parse(data []byte) ([]align.Word, error)

	// Marshal encodes an alignment as file content.
	Marshal(a *align.Alignment) ([]byte, error)
}

var registry = map[string]Codec{}

// Register associates a codec with a file extension (without the dot,
// case-insensitive). New formats are added here, not by branching in
// the alignment type.
func Register(ext string, c Codec) {
	registry[strings.ToLower(ext)] = c
}

func init() {
	Register("json", JSON{})
	Register("mlf", MLF{})
	Register("textgrid", TextGrid{})
}

// ForPath returns the codec registered for the path's extension.
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupported, ext)
	}
	return c, nil
}

// Load reads and parses an alignment file, validating the result.
func Load(path string) (*align.Alignment, error) {
	c, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alignment: %w", err)
	}
	words, err := c.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	a, err := align.New(words)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return a, nil
}

// Save serializes an alignment to the format selected by the path's
// extension.
func Save(path string, a *align.Alignment) error {
	c, err := ForPath(path)
	if err != nil {
		return err
	}
	data, err := c.Marshal(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write alignment: %w", err)
	}
	return nil
}
