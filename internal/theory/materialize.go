package theory

import (
	"regexp"
	"strconv"
)

// ChordInfo is a chord ready for voicing: root-position MIDI notes with
// their spellings and, for inversions or slash chords, the pitch class the
// bass must sound.
type ChordInfo struct {
	FinalChordSymbol string   `json:"final_chord_symbol"`
	Notes            []int    `json:"notes"`
	NoteNames        []string `json:"note_names"`
	RequiredBassPc   *int     `json:"required_bass_pc"`
}

// Materialize expands a chord symbol into MIDI notes placed relative to the
// key tonic and resolves the bass interval token.
func Materialize(symbol, bassInterval string, mode Mode, tonic string) (*ChordInfo, error) {
	if mode != Major && mode != Minor {
		return nil, inputErrorf("unknown mode %q", mode)
	}
	chord, err := ParseChordSymbol(symbol)
	if err != nil {
		return nil, err
	}
	t, err := ParsePitch(tonic)
	if err != nil {
		return nil, err
	}
	return materialize(chord, bassInterval, t)
}

func materialize(chord Chord, bassInterval string, tonic Pitch) (*ChordInfo, error) {
	tones, err := chord.Tones()
	if err != nil {
		return nil, err
	}

	rootPc := chord.Root.Class()
	octave := 2
	if mod(rootPc-tonic.Class(), semitonesPerOctave) <= semitonesPerOctave/2 {
		octave = 3
	}
	rootMidi := (octave+1)*semitonesPerOctave + rootPc

	intervals := chord.Intervals()
	info := &ChordInfo{
		FinalChordSymbol: chord.Symbol(),
		Notes:            make([]int, len(intervals)),
		NoteNames:        make([]string, len(intervals)),
	}
	for i, semis := range intervals {
		info.Notes[i] = rootMidi + semis
		info.NoteNames[i] = tones[i].NoteName(rootMidi + semis)
	}

	if bassInterval != RootPosition {
		offset, err := bassOffset(bassInterval, chord)
		if err != nil {
			return nil, err
		}
		pc := mod(rootPc+offset, semitonesPerOctave)
		info.RequiredBassPc = &pc
	}
	return info, nil
}

var bassIntervalPattern = regexp.MustCompile(`^(P|M|m|A|d|##|#|bb|b)?(\d{1,2})$`)

// Semitones of the major or perfect interval for each simple degree 1-7.
var plainIntervals = [lettersPerOctave]int{0, 2, 4, 5, 7, 9, 11}

// bassOffset converts a bass interval token ("3", "m7", "b6", "P5") into
// semitones above the chord root. A bare degree picks the chord tone of
// that degree when the chord has one.
func bassOffset(token string, chord Chord) (int, error) {
	m := bassIntervalPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, theoryErrorf("bass interval %q is malformed", token)
	}
	number, err := strconv.Atoi(m[2])
	if err != nil || number < 1 || number > 13 {
		return 0, theoryErrorf("bass interval %q is out of range 1-13", token)
	}
	degree := (number - 1) % lettersPerOctave
	plain := plainIntervals[degree]
	perfect := degree == 0 || degree == 3 || degree == 4

	switch m[1] {
	case "":
		if semis, ok := chordToneOffset(chord, degree); ok {
			return semis, nil
		}
		return plain, nil
	case "P":
		if !perfect {
			return 0, theoryErrorf("bass interval %q: degree %d cannot be perfect", token, number)
		}
		return plain, nil
	case "M":
		if perfect {
			return 0, theoryErrorf("bass interval %q: degree %d cannot be major", token, number)
		}
		return plain, nil
	case "m":
		if perfect {
			return 0, theoryErrorf("bass interval %q: degree %d cannot be minor", token, number)
		}
		return plain - 1, nil
	case "A":
		return plain + 1, nil
	case "d":
		if perfect {
			return plain - 1, nil
		}
		return plain - 2, nil
	case "#":
		return plain + 1, nil
	case "##":
		return plain + 2, nil
	case "b":
		return plain - 1, nil
	case "bb":
		return plain - 2, nil
	}
	return 0, theoryErrorf("bass interval %q is malformed", token)
}

// chordToneOffset finds the chord tone standing on a simple degree (0-based).
func chordToneOffset(chord Chord, degree int) (int, bool) {
	intervals := chord.Intervals()
	thirdDegree := 2
	if chord.Quality == QualitySuspended {
		thirdDegree = 3
	}
	switch degree {
	case 0:
		return 0, true
	case thirdDegree:
		return intervals[1], true
	case 4:
		return intervals[2], true
	case 6:
		if len(intervals) == 4 {
			return intervals[3], true
		}
	}
	return 0, false
}
