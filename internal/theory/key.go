package theory

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode is the tonal mode of a key.
type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

const scaleLength = 7

// Scale step patterns in semitones above the tonic.
var (
	majorSteps         = [scaleLength]int{0, 2, 4, 5, 7, 9, 11}
	naturalMinorSteps  = [scaleLength]int{0, 2, 3, 5, 7, 8, 10}
	harmonicMinorSteps = [scaleLength]int{0, 2, 3, 5, 7, 8, 11}
	melodicMinorSteps  = [scaleLength]int{0, 2, 3, 5, 7, 9, 11}
)

// ScaleVariant is one spelling of a minor key's scale together with the
// triads built on each of its degrees.
type ScaleVariant struct {
	Scale  []string `json:"scale"`
	Chords []string `json:"chords"`

	pitches []Pitch
}

// KeyDescriptor is the resolved form of a key name. Minor keys carry the
// natural, harmonic and melodic variants; major keys carry their diatonic
// chords directly.
type KeyDescriptor struct {
	Tonic  string   `json:"tonic"`
	Mode   Mode     `json:"mode"`
	Scale  []string `json:"scale"`
	Chords []string `json:"chords,omitempty"`

	Natural  *ScaleVariant `json:"natural,omitempty"`
	Harmonic *ScaleVariant `json:"harmonic,omitempty"`
	Melodic  *ScaleVariant `json:"melodic,omitempty"`

	tonic   Pitch
	pitches []Pitch
}

// canonicalTonics are the tonic spellings a resolved key may carry.
var canonicalTonics = map[string]bool{
	"C": true, "C#": true, "Db": true, "D": true, "D#": true, "Eb": true,
	"E": true, "F": true, "F#": true, "Gb": true, "G": true, "G#": true,
	"Ab": true, "A": true, "A#": true, "Bb": true, "B": true,
}

var (
	sharpSpellings = [semitonesPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatSpellings  = [semitonesPerOctave]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

var keyNamePattern = regexp.MustCompile(`^([A-Ga-g])(##|bb|x|#|b)?\s*(.*)$`)

// ResolveKey parses a key name such as "C", "F# minor", "Bbm" or "eb maj".
// A bare tonic is major.
func ResolveKey(name string) (*KeyDescriptor, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty key name", ErrInvalidKey)
	}

	m := keyNamePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, fmt.Errorf("%w: cannot parse tonic in %q", ErrInvalidKey, name)
	}

	tonic, err := canonicalTonic(m[1], m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidKey, name, err)
	}

	mode, ok := parseMode(m[3])
	if !ok {
		return nil, fmt.Errorf("%w: cannot infer mode from %q", ErrInvalidKey, name)
	}

	key, err := NewKey(tonic, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidKey, name, err)
	}
	return key, nil
}

// NewKey builds a key descriptor on an already spelled tonic. Unlike
// ResolveKey it keeps the spelling as given, which secondary relations need
// (the subdominant of Gb major is Cb, not B).
func NewKey(tonic Pitch, mode Mode) (*KeyDescriptor, error) {
	switch mode {
	case Major:
		v, err := buildVariant(tonic, majorSteps)
		if err != nil {
			return nil, err
		}
		return &KeyDescriptor{
			Tonic:   tonic.Name(),
			Mode:    Major,
			Scale:   v.Scale,
			Chords:  v.Chords,
			tonic:   tonic,
			pitches: v.pitches,
		}, nil
	case Minor:
		natural, err := buildVariant(tonic, naturalMinorSteps)
		if err != nil {
			return nil, err
		}
		harmonic, err := buildVariant(tonic, harmonicMinorSteps)
		if err != nil {
			return nil, err
		}
		melodic, err := buildVariant(tonic, melodicMinorSteps)
		if err != nil {
			return nil, err
		}
		return &KeyDescriptor{
			Tonic:    tonic.Name(),
			Mode:     Minor,
			Scale:    natural.Scale,
			Chords:   natural.Chords,
			Natural:  natural,
			Harmonic: harmonic,
			Melodic:  melodic,
			tonic:    tonic,
			pitches:  natural.pitches,
		}, nil
	}
	return nil, inputErrorf("unknown mode %q", mode)
}

// TonicPitch returns the spelled tonic. Hand-built descriptors are parsed
// from their Tonic field.
func (k *KeyDescriptor) TonicPitch() (Pitch, error) {
	if k.pitches != nil {
		return k.tonic, nil
	}
	return ParsePitch(k.Tonic)
}

func canonicalTonic(letter, accidental string) (Pitch, error) {
	p, err := ParsePitch(strings.ToUpper(letter) + accidental)
	if err != nil {
		return Pitch{}, err
	}
	if canonicalTonics[p.Name()] {
		return p, nil
	}
	spelling := sharpSpellings[p.Class()]
	if p.Alter < 0 {
		spelling = flatSpellings[p.Class()]
	}
	return ParsePitch(spelling)
}

func parseMode(s string) (Mode, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return Major, true
	case "M":
		return Major, true
	case "m":
		return Minor, true
	}
	switch strings.ToLower(s) {
	case "major", "maj":
		return Major, true
	case "minor", "min":
		return Minor, true
	}
	return "", false
}

func buildVariant(tonic Pitch, steps [scaleLength]int) (*ScaleVariant, error) {
	pitches := make([]Pitch, scaleLength)
	for i, step := range steps {
		p, err := tonic.Up(i, step)
		if err != nil {
			return nil, err
		}
		pitches[i] = p
	}

	v := &ScaleVariant{
		Scale:   make([]string, scaleLength),
		Chords:  make([]string, scaleLength),
		pitches: pitches,
	}
	for i, p := range pitches {
		v.Scale[i] = p.Name()
		chord, err := diatonicTriad(pitches, i)
		if err != nil {
			return nil, err
		}
		v.Chords[i] = chord.Symbol()
	}
	return v, nil
}

func (v *ScaleVariant) scalePitches() ([]Pitch, error) {
	if v.pitches != nil {
		return v.pitches, nil
	}
	return parseScale(v.Scale)
}

func (k *KeyDescriptor) scalePitches() ([]Pitch, error) {
	if k.pitches != nil {
		return k.pitches, nil
	}
	return parseScale(k.Scale)
}

func parseScale(names []string) ([]Pitch, error) {
	if len(names) != scaleLength {
		return nil, theoryErrorf("scale has %d degrees, want %d", len(names), scaleLength)
	}
	pitches := make([]Pitch, len(names))
	for i, n := range names {
		p, err := ParsePitch(n)
		if err != nil {
			return nil, theoryErrorf("scale degree %d: %v", i+1, err)
		}
		pitches[i] = p
	}
	return pitches, nil
}

// diatonicTriad stacks thirds on degree i of a spelled scale.
func diatonicTriad(scale []Pitch, degree int) (Chord, error) {
	root := scale[degree]
	third := intervalAbove(root, scale[(degree+2)%scaleLength])
	fifth := intervalAbove(root, scale[(degree+4)%scaleLength])
	q, ok := triadQualityFromIntervals(third, fifth)
	if !ok {
		return Chord{}, theoryErrorf("degree %d of scale does not form a tertian triad", degree+1)
	}
	return Chord{Root: root, Quality: q}, nil
}

// diatonicSeventh returns the seventh that the scale stacks on degree i.
func diatonicSeventh(scale []Pitch, degree int) Seventh {
	root := scale[degree]
	switch intervalAbove(root, scale[(degree+6)%scaleLength]) {
	case 11:
		return MajorSeventh
	case 10:
		return MinorSeventh
	case 9:
		return DiminishedSeventh
	}
	return NoSeventh
}

func intervalAbove(from, to Pitch) int {
	return mod(to.Class()-from.Class(), semitonesPerOctave)
}
