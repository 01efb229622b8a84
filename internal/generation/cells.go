package generation

import (
	"fmt"
	"math/big"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
	"github.com/Conceptual-Machines/magda-harmony/pkg/embedded"
)

// Cell is a fixed rhythmic pattern that fills one beat group exactly.
type Cell struct {
	Pattern []Event `yaml:"pattern" json:"pattern"`
	Min     int     `yaml:"min" json:"min"`
	Weight  float64 `yaml:"weight" json:"weight"`
}

// HasRest reports whether the cell contains any rest.
func (c Cell) HasRest() bool {
	for _, e := range c.Pattern {
		if e.IsRest() {
			return true
		}
	}
	return false
}

// LeadingRest reports whether the cell starts with a rest.
func (c Cell) LeadingRest() bool {
	return len(c.Pattern) > 0 && c.Pattern[0].IsRest()
}

// HasSixteenths reports whether the cell subdivides below the eighth note.
func (c Cell) HasSixteenths() bool {
	for _, e := range c.Pattern {
		if e.Denominator() >= 16 {
			return true
		}
	}
	return false
}

// CellLibrary holds the available cells per beat-group length.
type CellLibrary struct {
	groups map[string][]Cell
}

type cellFile struct {
	Groups map[string][]Cell `yaml:"groups"`
}

// ParseCellLibrary decodes a YAML cell library and checks that every cell
// fills its group exactly and that every group has a cell for the lowest
// complexity.
func ParseCellLibrary(data []byte) (*CellLibrary, error) {
	var file cellFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: decode cell library: %v", theory.ErrGeneration, err)
	}
	if len(file.Groups) == 0 {
		return nil, fmt.Errorf("%w: cell library has no groups", theory.ErrGeneration)
	}

	lib := &CellLibrary{groups: make(map[string][]Cell, len(file.Groups))}
	for name, cells := range file.Groups {
		length, ok := new(big.Rat).SetString(name)
		if !ok || length.Sign() <= 0 {
			return nil, fmt.Errorf("%w: cell group %q is not a positive fraction", theory.ErrGeneration, name)
		}
		hasBasic := false
		for i, c := range cells {
			if c.Weight <= 0 {
				return nil, fmt.Errorf("%w: cell %d of group %s has no weight", theory.ErrGeneration, i, name)
			}
			if c.Min < 1 || c.Min > 10 {
				return nil, fmt.Errorf("%w: cell %d of group %s has min complexity %d", theory.ErrGeneration, i, name, c.Min)
			}
			sum, err := Sum(c.Pattern)
			if err != nil {
				return nil, fmt.Errorf("cell %d of group %s: %w", i, name, err)
			}
			if sum.Cmp(length) != 0 {
				return nil, fmt.Errorf("%w: cell %d of group %s sums to %s", theory.ErrGeneration, i, name, sum.RatString())
			}
			if c.Min == 1 {
				hasBasic = true
			}
		}
		if !hasBasic {
			return nil, fmt.Errorf("%w: cell group %s has no cell for complexity 1", theory.ErrGeneration, name)
		}
		lib.groups[length.String()] = cells
	}
	return lib, nil
}

// Cells returns the cells that fill a group of the given length.
func (l *CellLibrary) Cells(length *big.Rat) []Cell {
	return l.groups[length.String()]
}

var (
	defaultCellsOnce sync.Once
	defaultCells     *CellLibrary
	defaultCellsErr  error
)

// DefaultCellLibrary returns the embedded cell library.
func DefaultCellLibrary() (*CellLibrary, error) {
	defaultCellsOnce.Do(func() {
		defaultCells, defaultCellsErr = ParseCellLibrary(embedded.RhythmCellsYAML)
	})
	return defaultCells, defaultCellsErr
}

// cellWeight scores a cell for one beat group. Rests are damped on strong
// groups, leading rests most of all. Sixteenth subdivision is tempered at
// middle complexities, more so right after another sixteenth group, and
// favored at the top of the range.
func cellWeight(c Cell, complexity int, strong, prevSixteenths bool) float64 {
	if c.Min > complexity {
		return 0
	}
	w := c.Weight
	if c.HasRest() {
		if complexity < restComplexity {
			return 0
		}
		if strong {
			if c.LeadingRest() {
				w *= 0.05
			} else {
				w *= 0.5
			}
		}
	}
	if c.HasSixteenths() {
		switch {
		case complexity >= 5 && complexity <= 7:
			w *= 0.6
			if prevSixteenths {
				w *= 0.35
			}
		case complexity >= 9:
			w *= 1.5
		}
	}
	return w
}
