package theory

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pitchClasses(notes []int) []int {
	out := make([]int, len(notes))
	for i, n := range notes {
		out[i] = n % 12
	}
	sort.Ints(out)
	return out
}

func TestResolveChordTonicInC(t *testing.T) {
	info, err := ResolveChord("I", "C")
	require.NoError(t, err)
	assert.Equal(t, "CM", info.FinalChordSymbol)
	assert.Equal(t, []int{48, 52, 55}, info.Notes)
	assert.Equal(t, []string{"C3", "E3", "G3"}, info.NoteNames)
	assert.Equal(t, []int{0, 4, 7}, pitchClasses(info.Notes))
	assert.Nil(t, info.RequiredBassPc)
}

func TestResolveChordSecondaryDominantInversion(t *testing.T) {
	info, err := ResolveChord("V65/IV", "C")
	require.NoError(t, err)
	assert.Equal(t, "C7", info.FinalChordSymbol)
	assert.Equal(t, []int{48, 52, 55, 58}, info.Notes)
	require.NotNil(t, info.RequiredBassPc)
	assert.Equal(t, 4, *info.RequiredBassPc)
}

func TestResolveChordLeadingToneDiminishedSeventh(t *testing.T) {
	info, err := ResolveChord("vii°7", "G")
	require.NoError(t, err)
	assert.Equal(t, "F#dim7", info.FinalChordSymbol)
	assert.Equal(t, []int{42, 45, 48, 51}, info.Notes)
	assert.Equal(t, []string{"F#2", "A2", "C3", "Eb3"}, info.NoteNames)

	classes := map[int]bool{}
	for i, n := range info.Notes {
		classes[n%12] = true
		if i > 0 {
			assert.Equal(t, 3, n-info.Notes[i-1])
		}
	}
	assert.Len(t, classes, 4)
}

func TestResolveChord(t *testing.T) {
	tests := []struct {
		name   string
		roman  string
		key    string
		symbol string
		bassPc *int
	}{
		{"supertonic seventh", "ii7", "C", "Dm7", nil},
		{"tonic seventh is major seventh", "I7", "C", "CM7", nil},
		{"subdominant seventh", "IV7", "C", "FM7", nil},
		{"dominant seventh", "V7", "C", "G7", nil},
		{"leading tone seventh in major", "vii7", "C", "Bm7b5", nil},
		{"half diminished alias", "viiø7", "C", "Bm7b5", nil},
		{"first inversion", "I6", "C", "CM", intPtr(4)},
		{"second inversion", "I64", "C", "CM", intPtr(7)},
		{"third inversion", "V42", "C", "G7", intPtr(5)},
		{"slash bass", "IV/5", "C", "FM", intPtr(0)},
		{"slash bass with quality", "I/m3", "C", "CM", intPtr(3)},
		{"case turns supertonic major", "II", "C", "DM", nil},
		{"case turns tonic minor", "i", "C", "Cm", nil},
		{"chromatic major triad on II gets dominant seventh", "II7", "C", "D7", nil},
		{"borrowed flat six", "bVI", "C", "AbM", nil},
		{"neapolitan sixth", "bII6", "C", "DbM", intPtr(5)},
		{"raised four diminished seventh", "#iv°7", "C", "F#dim7", nil},
		{"ordinal indicator reads as diminished", "viiº7", "G", "F#dim7", nil},
		{"full-width numerals", "Ｖ７", "C", "G7", nil},
		{"applied dominant", "V/V", "C", "DM", nil},
		{"applied dominant seventh", "V7/V", "C", "D7", nil},
		{"applied to minor target", "V7/ii", "C", "A7", nil},
		{"applied leading tone", "vii°7/V", "C", "F#dim7", nil},
		{"suspended", "Vsus", "C", "Gsus4", nil},
		{"suspended seventh", "V7sus4", "C", "G7sus4", nil},
		{"augmented", "V+", "C", "Gaug", nil},
		{"minor major seventh", "imM7", "C", "CmM7", nil},
		{"minor tonic", "i", "A minor", "Am", nil},
		{"minor tonic seventh", "i7", "A minor", "Am7", nil},
		{"minor supertonic", "ii°", "A minor", "Bdim", nil},
		{"minor mediant from natural minor", "III", "A minor", "CM", nil},
		{"minor mediant seventh", "III7", "A minor", "CM7", nil},
		{"minor dominant is harmonic", "V", "A minor", "EM", nil},
		{"minor dominant seventh", "V7", "A minor", "E7", nil},
		{"lowercase dominant takes natural minor", "v", "A minor", "Em", nil},
		{"subtonic takes natural minor", "VII", "A minor", "GM", nil},
		{"minor leading tone diminished seventh", "vii°7", "A minor", "G#dim7", nil},
		{"minor leading tone generic seventh", "vii7", "A minor", "G#dim7", nil},
		{"minor submediant", "VI", "A minor", "FM", nil},
		{"applied to minor subdominant", "V7/iv", "A minor", "A7", nil},
		{"sharp key spelling", "V7", "F# major", "C#7", nil},
		{"flat minor key", "iv", "Bb minor", "Ebm", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ResolveChord(tt.roman, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.symbol, info.FinalChordSymbol)
			if tt.bassPc == nil {
				assert.Nil(t, info.RequiredBassPc)
			} else {
				require.NotNil(t, info.RequiredBassPc)
				assert.Equal(t, *tt.bassPc, *info.RequiredBassPc)
			}

			chord, err := ParseChordSymbol(info.FinalChordSymbol)
			require.NoError(t, err)
			assert.Len(t, info.Notes, len(chord.Intervals()))
			assert.Len(t, info.NoteNames, len(info.Notes))
			assert.IsIncreasing(t, info.Notes)
		})
	}
}

func TestResolveChordFallbacks(t *testing.T) {
	tests := []struct {
		roman  string
		symbol string
	}{
		{"I+M7", "Caug7"},
		{"vii°M7", "Bdim7"},
		{"VsusM7", "GM7"},
	}

	for _, tt := range tests {
		t.Run(tt.roman, func(t *testing.T) {
			info, err := ResolveChord(tt.roman, "C")
			require.NoError(t, err)
			assert.Equal(t, tt.symbol, info.FinalChordSymbol)
		})
	}
}

func TestResolveChordErrors(t *testing.T) {
	tests := []struct {
		name  string
		roman string
		key   string
		kind  error
	}{
		{"empty key", "I", "", ErrInvalidKey},
		{"unparsable numeral", "XYZ", "C", ErrMusicTheory},
		{"empty numeral", "", "C", ErrInvalidInput},
		{"diminished secondary target", "V/vii", "C", ErrMusicTheory},
		{"malformed slash bass", "I/x9", "C", ErrMusicTheory},
		{"slash bass out of range", "I/14", "C", ErrMusicTheory},
		{"perfect third", "I/P3", "C", ErrMusicTheory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveChord(tt.roman, tt.key)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestResolveChordAcrossKeys(t *testing.T) {
	tonics := []string{"C", "C#", "Db", "D", "D#", "Eb", "E", "F", "F#", "Gb", "G", "G#", "Ab", "A", "A#", "Bb", "B"}
	majorNumerals := []string{"I", "ii", "iii", "IV", "V", "vi", "vii°", "V7", "vii°7", "I6", "V65", "ii7", "IV64", "V7/V", "V7/IV", "bVI"}
	minorNumerals := []string{"i", "ii°", "III", "iv", "V", "VI", "vii°", "V7", "vii°7", "iv6", "V43", "VII", "v", "V7/iv", "V7/V", "iiø7"}

	for _, tonic := range tonics {
		for _, numeral := range majorNumerals {
			info, err := ResolveChord(numeral, tonic)
			require.NoError(t, err, "%s in %s major", numeral, tonic)
			assert.IsIncreasing(t, info.Notes)
			assert.GreaterOrEqual(t, info.Notes[0], 36)
			assert.Less(t, info.Notes[0], 60)
		}
		for _, numeral := range minorNumerals {
			info, err := ResolveChord(numeral, tonic+" minor")
			require.NoError(t, err, "%s in %s minor", numeral, tonic)
			assert.Len(t, info.NoteNames, len(info.Notes))
		}
	}
}

func TestDiatonicChord(t *testing.T) {
	minor, err := ResolveKey("A minor")
	require.NoError(t, err)

	got, err := DiatonicChord(4, minor, "V")
	require.NoError(t, err)
	assert.Equal(t, "EM", got)

	got, err = DiatonicChord(6, minor, "vii")
	require.NoError(t, err)
	assert.Equal(t, "G#dim", got)

	got, err = DiatonicChord(2, minor, "III")
	require.NoError(t, err)
	assert.Equal(t, "CM", got)

	_, err = DiatonicChord(0, nil, "I")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = DiatonicChord(7, minor, "VIII")
	assert.ErrorIs(t, err, ErrMusicTheory)

	_, err = DiatonicChord(-1, minor, "?")
	assert.ErrorIs(t, err, ErrMusicTheory)
}

func TestDiatonicChordMissingVariant(t *testing.T) {
	malformed := &KeyDescriptor{
		Tonic: "A",
		Mode:  Minor,
		Scale: []string{"A", "B", "C", "D", "E", "F", "G"},
		Natural: &ScaleVariant{
			Scale:  []string{"A", "B", "C", "D", "E", "F", "G"},
			Chords: []string{"Am", "Bdim", "CM", "Dm", "Em", "FM", "GM"},
		},
	}

	got, err := DiatonicChord(0, malformed, "i")
	require.NoError(t, err)
	assert.Equal(t, "Am", got)

	_, err = DiatonicChord(4, malformed, "V")
	assert.ErrorIs(t, err, ErrMusicTheory)

	short := &KeyDescriptor{Tonic: "C", Mode: Major, Chords: []string{"CM", "Dm"}}
	_, err = DiatonicChord(4, short, "V")
	assert.ErrorIs(t, err, ErrMusicTheory)
}

func TestModifyChord(t *testing.T) {
	key, err := ResolveKey("C")
	require.NoError(t, err)

	tests := []struct {
		current string
		numeral string
		degree  int
		want    string
	}{
		{"Dm", "ii7", 1, "Dm7"},
		{"GM", "V7", 4, "G7"},
		{"GM", "Vmaj7", 4, "GM7"},
		{"Bdim", "viiø7", 6, "Bm7b5"},
		{"Bdim", "vii°7", 6, "Bdim7"},
		{"Em", "III", 2, "EM"},
		{"Am", "vi", 5, "Am"},
		{"CM", "I+M7", 0, "Caug7"},
	}

	for _, tt := range tests {
		t.Run(tt.numeral, func(t *testing.T) {
			got, err := ModifyChord(tt.current, tt.numeral, key, tt.degree)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = ModifyChord("CM", "I", nil, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ModifyChord("Xyz", "I", key, 0)
	assert.ErrorIs(t, err, ErrMusicTheory)

	_, err = ModifyChord("CM", "I", key, 9)
	assert.ErrorIs(t, err, ErrMusicTheory)
}

func TestModifyChordHandBuiltMajorKey(t *testing.T) {
	key := &KeyDescriptor{
		Tonic:  "C",
		Mode:   Major,
		Scale:  []string{"C", "D", "E", "F", "G", "A", "B"},
		Chords: []string{"CM", "Dm", "Em", "FM", "GM", "Am", "Bdim"},
	}
	got, err := ModifyChord("FM", "IV7", key, 3)
	require.NoError(t, err)
	assert.Equal(t, "FM7", got)
}

func TestMaterialize(t *testing.T) {
	info, err := Materialize("Am", "1", Minor, "A")
	require.NoError(t, err)
	assert.Equal(t, []int{57, 60, 64}, info.Notes)
	assert.Equal(t, []string{"A3", "C4", "E4"}, info.NoteNames)

	info, err = Materialize("CM", "3", Major, "C")
	require.NoError(t, err)
	require.NotNil(t, info.RequiredBassPc)
	assert.Equal(t, 4, *info.RequiredBassPc)

	info, err = Materialize("CM", "b7", Major, "C")
	require.NoError(t, err)
	require.NotNil(t, info.RequiredBassPc)
	assert.Equal(t, 10, *info.RequiredBassPc)

	info, err = Materialize("G7", "7", Major, "C")
	require.NoError(t, err)
	assert.Equal(t, []int{43, 47, 50, 53}, info.Notes)
	assert.Equal(t, 5, *info.RequiredBassPc)

	info, err = Materialize("Gsus4", "4", Major, "C")
	require.NoError(t, err)
	assert.Equal(t, 0, *info.RequiredBassPc)

	_, err = Materialize("", "1", Major, "C")
	assert.ErrorIs(t, err, ErrMusicTheory)

	_, err = Materialize("CM", "q5", Major, "C")
	assert.ErrorIs(t, err, ErrMusicTheory)

	_, err = Materialize("CM", "1", Mode("dorian"), "C")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func intPtr(v int) *int {
	return &v
}
