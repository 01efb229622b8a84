package theory

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. Callers classify failures with errors.Is.
var (
	// ErrInvalidInput is caused by the caller: malformed key/meter strings,
	// out-of-range complexity or scale degrees, missing key descriptors.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMusicTheory means the input was well formed but does not resolve
	// to a valid musical construct.
	ErrMusicTheory = errors.New("music theory error")

	// ErrGeneration signals an internal invariant violation inside a generator.
	ErrGeneration = errors.New("generation error")
)

var (
	ErrInvalidKey   = fmt.Errorf("invalid key: %w", ErrInvalidInput)
	ErrInvalidMeter = fmt.Errorf("invalid meter: %w", ErrInvalidInput)
)

// Kind returns a short machine-readable name for the error's kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidKey):
		return "invalid_key"
	case errors.Is(err, ErrInvalidMeter):
		return "invalid_meter"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrMusicTheory):
		return "music_theory"
	case errors.Is(err, ErrGeneration):
		return "generation"
	default:
		return "internal"
	}
}

func theoryErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMusicTheory, fmt.Sprintf(format, args...))
}

func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
