package theory

import (
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strconv"
)

// MeterKind classifies how a meter groups its beats.
type MeterKind string

const (
	MeterSimple   MeterKind = "simple"
	MeterCompound MeterKind = "compound"
	MeterAdditive MeterKind = "additive"
)

// Meter is a validated time signature. Groups holds the beat grouping as
// counts of Unit, e.g. 7/8 is [2 2 3].
type Meter struct {
	Beats  int       `json:"beats"`
	Unit   int       `json:"unit"`
	Kind   MeterKind `json:"kind"`
	Groups []int     `json:"groups"`
}

type meterPlan struct {
	kind   MeterKind
	groups []int
}

var supportedMeters = map[[2]int]meterPlan{
	{2, 4}:  {MeterSimple, []int{1, 1}},
	{3, 4}:  {MeterSimple, []int{1, 1, 1}},
	{4, 4}:  {MeterSimple, []int{1, 1, 1, 1}},
	{5, 4}:  {MeterAdditive, []int{3, 2}},
	{7, 4}:  {MeterAdditive, []int{3, 2, 2}},
	{2, 2}:  {MeterSimple, []int{1, 1}},
	{3, 8}:  {MeterSimple, []int{1, 1, 1}},
	{5, 8}:  {MeterAdditive, []int{3, 2}},
	{6, 8}:  {MeterCompound, []int{3, 3}},
	{7, 8}:  {MeterAdditive, []int{2, 2, 3}},
	{9, 8}:  {MeterCompound, []int{3, 3, 3}},
	{12, 8}: {MeterCompound, []int{3, 3, 3, 3}},
}

var meterPattern = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d+)\s*$`)

// ValidateMeter parses "N/D" into its beat count and unit.
func ValidateMeter(spec string) (beats, unit int, err error) {
	m, err := ParseMeter(spec)
	if err != nil {
		return 0, 0, err
	}
	return m.Beats, m.Unit, nil
}

// ParseMeter validates a time signature against the supported set and
// returns it with its grouping plan.
func ParseMeter(spec string) (Meter, error) {
	m := meterPattern.FindStringSubmatch(spec)
	if m == nil {
		return Meter{}, fmt.Errorf("%w: %q is not of the form N/D", ErrInvalidMeter, spec)
	}
	beats, err := strconv.Atoi(m[1])
	if err != nil {
		return Meter{}, fmt.Errorf("%w: numerator of %q: %v", ErrInvalidMeter, spec, err)
	}
	unit, err := strconv.Atoi(m[2])
	if err != nil {
		return Meter{}, fmt.Errorf("%w: unit of %q: %v", ErrInvalidMeter, spec, err)
	}
	if beats <= 0 || unit <= 0 {
		return Meter{}, fmt.Errorf("%w: %q has a non-positive field", ErrInvalidMeter, spec)
	}
	switch unit {
	case 1, 2, 4, 8, 16, 32:
	default:
		return Meter{}, fmt.Errorf("%w: unit %d is not a supported power of two", ErrInvalidMeter, unit)
	}
	plan, ok := supportedMeters[[2]int{beats, unit}]
	if !ok {
		return Meter{}, fmt.Errorf("%w: %d/%d is not a supported combination", ErrInvalidMeter, beats, unit)
	}
	groups := make([]int, len(plan.groups))
	copy(groups, plan.groups)
	return Meter{Beats: beats, Unit: unit, Kind: plan.kind, Groups: groups}, nil
}

// SupportedMeters lists every accepted time signature, ordered by unit and
// then beat count.
func SupportedMeters() []Meter {
	out := make([]Meter, 0, len(supportedMeters))
	for sig, plan := range supportedMeters {
		groups := make([]int, len(plan.groups))
		copy(groups, plan.groups)
		out = append(out, Meter{Beats: sig[0], Unit: sig[1], Kind: plan.kind, Groups: groups})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Unit != out[j].Unit {
			return out[i].Unit < out[j].Unit
		}
		return out[i].Beats < out[j].Beats
	})
	return out
}

func (m Meter) String() string {
	return fmt.Sprintf("%d/%d", m.Beats, m.Unit)
}

// Length is the measure length as a fraction of a whole note.
func (m Meter) Length() *big.Rat {
	return big.NewRat(int64(m.Beats), int64(m.Unit))
}

// GroupLengths returns each beat group's length as a fraction of a whole
// note.
func (m Meter) GroupLengths() []*big.Rat {
	out := make([]*big.Rat, len(m.Groups))
	for i, g := range m.Groups {
		out[i] = big.NewRat(int64(g), int64(m.Unit))
	}
	return out
}

// GroupOffsets returns the start of each beat group, in whole notes from the
// downbeat.
func (m Meter) GroupOffsets() []*big.Rat {
	out := make([]*big.Rat, len(m.Groups))
	pos := new(big.Rat)
	for i, g := range m.Groups {
		out[i] = new(big.Rat).Set(pos)
		pos.Add(pos, big.NewRat(int64(g), int64(m.Unit)))
	}
	return out
}
