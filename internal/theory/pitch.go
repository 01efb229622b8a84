package theory

import (
	"fmt"
	"strings"
)

const (
	semitonesPerOctave = 12
	lettersPerOctave   = 7
)

var letterNames = [lettersPerOctave]string{"C", "D", "E", "F", "G", "A", "B"}

// naturalClasses holds the pitch class of each natural letter, C through B.
var naturalClasses = [lettersPerOctave]int{0, 2, 4, 5, 7, 9, 11}

// Pitch is a spelled pitch class: a letter (0 = C … 6 = B) and a chromatic
// alteration in semitones (-2 = double flat … +2 = double sharp).
type Pitch struct {
	Letter int
	Alter  int
}

// Class returns the pitch class 0-11.
func (p Pitch) Class() int {
	return mod(naturalClasses[p.Letter]+p.Alter, semitonesPerOctave)
}

// Name renders the pitch as a letter followed by its accidentals.
func (p Pitch) Name() string {
	var b strings.Builder
	b.WriteString(letterNames[p.Letter])
	switch {
	case p.Alter > 0:
		b.WriteString(strings.Repeat("#", p.Alter))
	case p.Alter < 0:
		b.WriteString(strings.Repeat("b", -p.Alter))
	}
	return b.String()
}

func (p Pitch) String() string {
	return p.Name()
}

// Up spells the pitch that lies the given number of letter steps and
// semitones above p. The result fails when the spelling would need more
// than a double accidental.
func (p Pitch) Up(letterSteps, semitones int) (Pitch, error) {
	letter := mod(p.Letter+letterSteps, lettersPerOctave)
	target := mod(p.Class()+semitones, semitonesPerOctave)
	alter := signedDistance(naturalClasses[letter], target)
	if alter < -2 || alter > 2 {
		return Pitch{}, theoryErrorf("cannot spell %d semitones above %s on letter %s", semitones, p.Name(), letterNames[letter])
	}
	return Pitch{Letter: letter, Alter: alter}, nil
}

// Shift alters the pitch by a number of semitones while keeping its letter.
func (p Pitch) Shift(semitones int) (Pitch, error) {
	alter := p.Alter + semitones
	if alter < -2 || alter > 2 {
		return Pitch{}, theoryErrorf("cannot shift %s by %d semitones", p.Name(), semitones)
	}
	return Pitch{Letter: p.Letter, Alter: alter}, nil
}

// NoteName renders an absolute MIDI note with this pitch's spelling in
// scientific pitch notation (C4 = 60). The octave follows the letter, so
// B#3 sounds as MIDI 60.
func (p Pitch) NoteName(midi int) string {
	octave := floorDiv(midi-p.Alter-naturalClasses[p.Letter], semitonesPerOctave) - 1
	return fmt.Sprintf("%s%d", p.Name(), octave)
}

// ParsePitch reads a letter followed by up to two accidentals of the same
// direction. "x" is accepted as a double sharp.
func ParsePitch(s string) (Pitch, error) {
	if s == "" {
		return Pitch{}, inputErrorf("empty pitch name")
	}
	letter := strings.IndexByte("CDEFGAB", upperASCII(s[0]))
	if letter < 0 {
		return Pitch{}, inputErrorf("unknown pitch letter %q", s[:1])
	}
	alter, err := parseAccidentals(s[1:])
	if err != nil {
		return Pitch{}, err
	}
	return Pitch{Letter: letter, Alter: alter}, nil
}

func parseAccidentals(acc string) (int, error) {
	switch acc {
	case "":
		return 0, nil
	case "#":
		return 1, nil
	case "##", "x":
		return 2, nil
	case "b":
		return -1, nil
	case "bb":
		return -2, nil
	}
	return 0, inputErrorf("unsupported accidental %q", acc)
}

func upperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

// signedDistance returns the shortest signed semitone distance from a to b.
func signedDistance(from, to int) int {
	d := mod(to-from, semitonesPerOctave)
	if d > semitonesPerOctave/2 {
		d -= semitonesPerOctave
	}
	return d
}
