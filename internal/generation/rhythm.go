package generation

import (
	"fmt"
	"math/big"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const (
	minRhythmComplexity = 1
	maxRhythmComplexity = 10

	// lowRegimeMaxComplexity is the highest complexity that simple meters
	// fill directly instead of through cells.
	lowRegimeMaxComplexity = 4

	// restComplexity is the lowest complexity that produces rests.
	restComplexity = 6
)

// Event is one rhythmic value: the denominator of its duration, positive
// for a note and negative for a rest. 4 is a quarter note, -8 an eighth
// rest.
type Event int

// IsRest reports whether the event is silent.
func (e Event) IsRest() bool {
	return e < 0
}

// Denominator returns the unsigned duration denominator.
func (e Event) Denominator() int {
	if e < 0 {
		return int(-e)
	}
	return int(e)
}

// Duration returns the event length as a fraction of a whole note.
func (e Event) Duration() *big.Rat {
	return big.NewRat(1, int64(e.Denominator()))
}

// Sum adds up the durations of events.
func Sum(events []Event) (*big.Rat, error) {
	sum := new(big.Rat)
	for i, e := range events {
		if e == 0 {
			return nil, fmt.Errorf("%w: event %d has zero duration", theory.ErrGeneration, i)
		}
		sum.Add(sum, e.Duration())
	}
	return sum, nil
}

// lowRegimeWeights maps a complexity to the weight of each note value.
func lowRegimeWeights(complexity int) map[Event]float64 {
	switch complexity {
	case 1:
		return map[Event]float64{1: 4, 2: 3, 4: 1}
	case 2:
		return map[Event]float64{1: 2, 2: 3, 4: 2}
	case 3:
		return map[Event]float64{1: 1, 2: 2, 4: 3, 8: 1}
	default:
		return map[Event]float64{1: 0.5, 2: 1.5, 4: 4, 8: 2}
	}
}

// lowRegimeValues fixes the iteration order over lowRegimeWeights.
var lowRegimeValues = []Event{1, 2, 4, 8}

// Rhythm fills one measure of meter with note and rest values. Simple
// meters at complexity 4 or below are filled note by note; every other
// combination picks one cell per beat group.
func (g *Generator) Rhythm(meter string, complexity int) ([]Event, error) {
	m, err := theory.ParseMeter(meter)
	if err != nil {
		return nil, err
	}
	if complexity < minRhythmComplexity || complexity > maxRhythmComplexity {
		return nil, fmt.Errorf("%w: rhythm complexity %d is outside %d-%d",
			theory.ErrInvalidInput, complexity, minRhythmComplexity, maxRhythmComplexity)
	}

	var events []Event
	if m.Kind == theory.MeterSimple && complexity <= lowRegimeMaxComplexity {
		events, err = g.simpleFill(m, complexity)
	} else {
		events, err = g.cellFill(m, complexity)
	}
	if err != nil {
		return nil, err
	}

	sum, err := Sum(events)
	if err != nil {
		return nil, err
	}
	if sum.Cmp(m.Length()) != 0 {
		return nil, fmt.Errorf("%w: rhythm for %s sums to %s", theory.ErrGeneration, m, sum.RatString())
	}
	return events, nil
}

// Rhythms generates one rhythm per measure.
func (g *Generator) Rhythms(meter string, complexity, measures int) ([][]Event, error) {
	out := make([][]Event, 0, max(measures, 0))
	for i := 0; i < measures; i++ {
		events, err := g.Rhythm(meter, complexity)
		if err != nil {
			return nil, err
		}
		out = append(out, events)
	}
	return out, nil
}

// simpleFill places notes left to right. An event that starts off the beat
// must end by the next beat.
func (g *Generator) simpleFill(m theory.Meter, complexity int) ([]Event, error) {
	length := m.Length()
	beat := big.NewRat(1, int64(m.Unit))
	weights := lowRegimeWeights(complexity)

	var events []Event
	pos := new(big.Rat)
	for pos.Cmp(length) < 0 {
		limit := new(big.Rat).Sub(length, pos)
		if offset := ratMod(pos, beat); offset.Sign() != 0 {
			toBeat := new(big.Rat).Sub(beat, offset)
			if toBeat.Cmp(limit) < 0 {
				limit = toBeat
			}
		}

		var items []weighted[Event]
		for _, v := range lowRegimeValues {
			w := weights[v]
			if w > 0 && v.Duration().Cmp(limit) <= 0 {
				items = append(items, weighted[Event]{value: v, weight: w})
			}
		}

		var next Event
		if len(items) == 0 {
			next = largestFitting(limit)
			if next == 0 {
				return nil, fmt.Errorf("%w: nothing fits %s at %s", theory.ErrGeneration, limit.RatString(), pos.RatString())
			}
		} else {
			var err error
			if next, err = choose(g.rng, items); err != nil {
				return nil, err
			}
		}
		events = append(events, next)
		pos.Add(pos, next.Duration())
	}
	return events, nil
}

// largestFitting returns the longest power-of-two note value not exceeding
// limit, or 0 when even a 32nd is too long.
func largestFitting(limit *big.Rat) Event {
	for d := 1; d <= 32; d *= 2 {
		if big.NewRat(1, int64(d)).Cmp(limit) <= 0 {
			return Event(d)
		}
	}
	return 0
}

// cellFill picks one cell per beat group.
func (g *Generator) cellFill(m theory.Meter, complexity int) ([]Event, error) {
	lib, err := g.cellLibrary()
	if err != nil {
		return nil, err
	}

	var events []Event
	prevSixteenths := false
	for i, length := range m.GroupLengths() {
		cells := lib.Cells(length)
		strong := i == 0 || (m.Beats == 4 && m.Unit == 4 && i == 2)

		items := make([]weighted[Cell], 0, len(cells))
		for _, c := range cells {
			if w := cellWeight(c, complexity, strong, prevSixteenths); w > 0 {
				items = append(items, weighted[Cell]{value: c, weight: w})
			}
		}
		cell, err := choose(g.rng, items)
		if err != nil {
			return nil, fmt.Errorf("group %d of %s: %w", i+1, m, err)
		}
		events = append(events, cell.Pattern...)
		prevSixteenths = cell.HasSixteenths()
	}
	return events, nil
}

// ratMod returns a mod b for non-negative rationals.
func ratMod(a, b *big.Rat) *big.Rat {
	q := new(big.Rat).Quo(a, b)
	whole := new(big.Int).Quo(q.Num(), q.Denom())
	return new(big.Rat).Sub(a, new(big.Rat).Mul(new(big.Rat).SetInt(whole), b))
}
