package theory

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeter(t *testing.T) {
	tests := []struct {
		spec   string
		beats  int
		unit   int
		kind   MeterKind
		groups []int
	}{
		{"4/4", 4, 4, MeterSimple, []int{1, 1, 1, 1}},
		{"3/4", 3, 4, MeterSimple, []int{1, 1, 1}},
		{"2/4", 2, 4, MeterSimple, []int{1, 1}},
		{"2/2", 2, 2, MeterSimple, []int{1, 1}},
		{"3/8", 3, 8, MeterSimple, []int{1, 1, 1}},
		{"5/4", 5, 4, MeterAdditive, []int{3, 2}},
		{"7/4", 7, 4, MeterAdditive, []int{3, 2, 2}},
		{"5/8", 5, 8, MeterAdditive, []int{3, 2}},
		{"7/8", 7, 8, MeterAdditive, []int{2, 2, 3}},
		{"6/8", 6, 8, MeterCompound, []int{3, 3}},
		{"9/8", 9, 8, MeterCompound, []int{3, 3, 3}},
		{"12/8", 12, 8, MeterCompound, []int{3, 3, 3, 3}},
		{" 04 / 4 ", 4, 4, MeterSimple, []int{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			m, err := ParseMeter(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.beats, m.Beats)
			assert.Equal(t, tt.unit, m.Unit)
			assert.Equal(t, tt.kind, m.Kind)
			assert.Equal(t, tt.groups, m.Groups)

			sum := new(big.Rat)
			for _, g := range m.GroupLengths() {
				sum.Add(sum, g)
			}
			assert.Zero(t, sum.Cmp(m.Length()), "groups must fill the measure")

			beats, unit, err := ValidateMeter(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.beats, beats)
			assert.Equal(t, tt.unit, unit)
		})
	}
}

func TestParseMeterErrors(t *testing.T) {
	specs := []string{
		"",
		"4",
		"4/4/4",
		"a/4",
		"-3/4",
		"0/4",
		"4/0",
		"4/3",
		"4/64",
		"13/8",
		"8/4",
		"1/4",
		"99999999999999999999/4",
	}

	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseMeter(spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidMeter)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, "invalid_meter", Kind(err))
		})
	}
}

func TestMeterGroupOffsets(t *testing.T) {
	m, err := ParseMeter("7/8")
	require.NoError(t, err)

	offsets := m.GroupOffsets()
	require.Len(t, offsets, 3)
	assert.Equal(t, "0/1", offsets[0].String())
	assert.Equal(t, "1/4", offsets[1].String())
	assert.Equal(t, "1/2", offsets[2].String())
	assert.Equal(t, "7/8", m.Length().String())
	assert.Equal(t, "7/8", m.String())
}

func TestSupportedMeters(t *testing.T) {
	meters := SupportedMeters()
	require.Len(t, meters, 12)

	var names []string
	for _, m := range meters {
		names = append(names, m.String())
		parsed, err := ParseMeter(m.String())
		require.NoError(t, err)
		assert.Equal(t, parsed, m)
	}
	assert.Equal(t, []string{"2/2", "2/4", "3/4", "4/4", "5/4", "7/4", "3/8", "5/8", "6/8", "7/8", "9/8", "12/8"}, names)
}
