package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

func TestProgressionCadence(t *testing.T) {
	keys := []struct {
		name      string
		tonic     string
		cadential []string
	}{
		{"C", "I", []string{"V", "V7", "IV", "I"}},
		{"G major", "I", []string{"V", "V7", "IV", "I"}},
		{"A minor", "i", []string{"V", "V7", "iv", "i"}},
		{"Ebm", "i", []string{"V", "V7", "iv", "i"}},
	}

	for _, k := range keys {
		for complexity := -2; complexity <= 12; complexity++ {
			for measures := 1; measures <= 9; measures++ {
				g := NewGenerator(uint64(complexity*100 + measures))
				prog, err := g.Progression(k.name, measures, complexity)
				require.NoError(t, err)
				require.Len(t, prog, measures)
				assert.Equal(t, k.tonic, prog[0])
				assert.Equal(t, k.tonic, prog[measures-1])
				if measures >= 3 {
					assert.Contains(t, k.cadential, prog[measures-2])
				}
			}
		}
	}
}

func TestProgressionShortForms(t *testing.T) {
	g := NewGenerator(1)

	prog, err := g.Progression("C", 0, 5)
	require.NoError(t, err)
	assert.Empty(t, prog)
	assert.NotNil(t, prog)

	prog, err = g.Progression("C", -3, 5)
	require.NoError(t, err)
	assert.Empty(t, prog)

	prog, err = g.Progression("C", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"I"}, prog)

	prog, err = g.Progression("D minor", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"i", "i"}, prog)
}

func TestProgressionPenultimateFollowsComplexity(t *testing.T) {
	prog, err := NewGenerator(3).Progression("C", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, "V", prog[2])

	prog, err = NewGenerator(3).Progression("C", 4, 7)
	require.NoError(t, err)
	assert.Equal(t, "V7", prog[2])
}

func TestProgressionVocabulary(t *testing.T) {
	tests := []struct {
		complexity int
		allowed    []string
	}{
		{0, []string{"I", "IV", "V"}},
		{3, []string{"I", "IV", "V", "vi", "ii"}},
		{5, []string{"I", "IV", "V7", "vi", "ii"}},
		{6, []string{"I", "IV", "V7", "vi", "ii", "iii", "vii°"}},
		{9, []string{"I", "IV", "V7", "vi", "ii", "iii", "vii°7"}},
	}

	for _, tt := range tests {
		for seed := uint64(0); seed < 20; seed++ {
			prog, err := NewGenerator(seed).Progression("C", 16, tt.complexity)
			require.NoError(t, err)
			for _, step := range prog {
				assert.Contains(t, tt.allowed, step, "complexity %d", tt.complexity)
			}
		}
	}
}

func TestProgressionAvoidsRepetition(t *testing.T) {
	tests := []struct {
		key        string
		measures   int
		complexity int
	}{
		{"F", 12, 6},
		{"C", 6, 5},
		{"C", 4, 2},
		{"A minor", 5, 9},
		{"Eb", 7, 0},
	}

	for _, tt := range tests {
		for seed := uint64(0); seed < 500; seed++ {
			prog, err := NewGenerator(seed).Progression(tt.key, tt.measures, tt.complexity)
			require.NoError(t, err)
			// every adjacent pair up to and including the cadential chord
			for i := 1; i < len(prog)-1; i++ {
				require.NotEqual(t, prog[i-1], prog[i], "%s seed %d step %d: %v", tt.key, seed, i, prog)
			}
		}
	}
}

func TestProgressionDeterministic(t *testing.T) {
	a, err := NewGenerator(42).Progression("Bb", 8, 8)
	require.NoError(t, err)
	b, err := NewGenerator(42).Progression("Bb", 8, 8)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProgressionInvalidKey(t *testing.T) {
	_, err := NewGenerator(1).Progression("", 4, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, theory.ErrInvalidInput)

	_, err = GenerateProgression("Q minor", 4, 5)
	assert.ErrorIs(t, err, theory.ErrInvalidKey)
}

func TestRealizeProgression(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		prog, err := NewGenerator(seed).Progression("E minor", 8, 10)
		require.NoError(t, err)
		chords, err := Realize("E minor", prog)
		require.NoError(t, err)
		require.Len(t, chords, len(prog))
		assert.Equal(t, "Em", chords[0].FinalChordSymbol)
		assert.Equal(t, "Em", chords[len(chords)-1].FinalChordSymbol)
	}
}
