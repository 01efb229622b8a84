package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

var supportedMeters = []string{"2/4", "3/4", "4/4", "5/4", "7/4", "2/2", "3/8", "5/8", "6/8", "7/8", "9/8", "12/8"}

func TestRhythmFillsMeasure(t *testing.T) {
	for _, meter := range supportedMeters {
		m, err := theory.ParseMeter(meter)
		require.NoError(t, err)
		for complexity := 1; complexity <= 10; complexity++ {
			for trial := uint64(0); trial < 8; trial++ {
				g := NewGenerator(trial*31 + uint64(complexity))
				events, err := g.Rhythm(meter, complexity)
				require.NoError(t, err, "%s at %d", meter, complexity)
				require.NotEmpty(t, events)

				sum, err := Sum(events)
				require.NoError(t, err)
				assert.Zero(t, sum.Cmp(m.Length()), "%s at %d: %v", meter, complexity, events)
			}
		}
	}
}

func TestRhythmLowComplexityHasNoRests(t *testing.T) {
	for _, meter := range supportedMeters {
		for complexity := 1; complexity <= 5; complexity++ {
			for seed := uint64(0); seed < 10; seed++ {
				events, err := NewGenerator(seed).Rhythm(meter, complexity)
				require.NoError(t, err)
				for _, e := range events {
					assert.False(t, e.IsRest(), "%s at %d: %v", meter, complexity, events)
				}
			}
		}
	}
}

func TestRhythmLowRegimeValues(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		events, err := NewGenerator(seed).Rhythm("4/4", 2)
		require.NoError(t, err)
		for _, e := range events {
			assert.Contains(t, []Event{1, 2, 4}, e)
		}

		events, err = NewGenerator(seed).Rhythm("3/4", 4)
		require.NoError(t, err)
		for _, e := range events {
			assert.Contains(t, []Event{2, 4, 8}, e)
		}
	}
}

func TestRhythmLowRegimeNoSyncopation(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		events, err := NewGenerator(seed).Rhythm("4/4", 4)
		require.NoError(t, err)

		// in eighths: an event starting off the beat must end by the next beat
		pos := 0
		for _, e := range events {
			length := 8 / e.Denominator()
			if pos%2 != 0 {
				assert.LessOrEqual(t, pos+length, pos+1, "seed %d: %v", seed, events)
			}
			pos += length
		}
		assert.Equal(t, 8, pos)
	}
}

func TestRhythmCompoundUsesCells(t *testing.T) {
	lib, err := DefaultCellLibrary()
	require.NoError(t, err)
	m, err := theory.ParseMeter("6/8")
	require.NoError(t, err)

	var patterns [][]Event
	for _, c := range lib.Cells(m.GroupLengths()[0]) {
		patterns = append(patterns, c.Pattern)
	}
	for seed := uint64(0); seed < 20; seed++ {
		events, err := NewGenerator(seed).Rhythm("6/8", 1)
		require.NoError(t, err)
		// two dotted-quarter groups, each one of the complexity-1 cells
		first, second := splitAt(t, events, 3)
		assert.Contains(t, patterns, first)
		assert.Contains(t, patterns, second)
	}
}

func TestRhythmHighComplexityProducesRests(t *testing.T) {
	found := false
	for seed := uint64(0); seed < 200 && !found; seed++ {
		events, err := NewGenerator(seed).Rhythm("4/4", 9)
		require.NoError(t, err)
		for _, e := range events {
			if e.IsRest() {
				found = true
			}
		}
	}
	assert.True(t, found, "expected at least one rest at complexity 9")
}

func TestRhythmErrors(t *testing.T) {
	g := NewGenerator(1)

	_, err := g.Rhythm("13/8", 5)
	assert.ErrorIs(t, err, theory.ErrInvalidMeter)

	_, err = g.Rhythm("4/4", 0)
	assert.ErrorIs(t, err, theory.ErrInvalidInput)
	assert.NotErrorIs(t, err, theory.ErrInvalidMeter)

	_, err = g.Rhythm("4/4", 11)
	assert.ErrorIs(t, err, theory.ErrInvalidInput)

	_, err = GenerateRhythm("", 3)
	assert.ErrorIs(t, err, theory.ErrInvalidMeter)
}

func TestRhythmsPerMeasure(t *testing.T) {
	measures, err := NewGenerator(9).Rhythms("7/8", 6, 4)
	require.NoError(t, err)
	assert.Len(t, measures, 4)

	measures, err = NewGenerator(9).Rhythms("7/8", 6, 0)
	require.NoError(t, err)
	assert.Empty(t, measures)
}

func TestParseCellLibraryRejectsBadCells(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"wrong sum", `groups: {"1/4": [{pattern: [8], min: 1, weight: 1}]}`},
		{"zero event", `groups: {"1/4": [{pattern: [0, 4], min: 1, weight: 1}]}`},
		{"no weight", `groups: {"1/4": [{pattern: [4], min: 1, weight: 0}]}`},
		{"bad group", `groups: {"quarter": [{pattern: [4], min: 1, weight: 1}]}`},
		{"no basic cell", `groups: {"1/4": [{pattern: [8, 8], min: 3, weight: 1}]}`},
		{"empty", `groups: {}`},
		{"not yaml", `groups: [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCellLibrary([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, theory.ErrGeneration)
		})
	}
}

func TestCellWeight(t *testing.T) {
	rest := Cell{Pattern: []Event{-8, 8}, Min: 6, Weight: 2}
	tail := Cell{Pattern: []Event{8, -8}, Min: 6, Weight: 2}
	sixteenths := Cell{Pattern: []Event{16, 16, 8}, Min: 5, Weight: 2}

	assert.Zero(t, cellWeight(rest, 5, false, false))
	assert.InDelta(t, 2.0, cellWeight(rest, 6, false, false), 1e-9)
	assert.InDelta(t, 0.1, cellWeight(rest, 6, true, false), 1e-9)
	assert.InDelta(t, 1.0, cellWeight(tail, 6, true, false), 1e-9)

	assert.InDelta(t, 1.2, cellWeight(sixteenths, 5, false, false), 1e-9)
	assert.InDelta(t, 0.42, cellWeight(sixteenths, 5, false, true), 1e-9)
	assert.InDelta(t, 2.0, cellWeight(sixteenths, 8, false, true), 1e-9)
	assert.InDelta(t, 3.0, cellWeight(sixteenths, 10, false, false), 1e-9)
}

func splitAt(t *testing.T, events []Event, eighths int) ([]Event, []Event) {
	t.Helper()
	total := 0
	for i, e := range events {
		total += 8 / e.Denominator()
		if total == eighths {
			return events[:i+1], events[i+1:]
		}
	}
	t.Fatalf("no split at %d eighths in %v", eighths, events)
	return nil, nil
}
