package generation

import (
	"fmt"
	"math/rand/v2"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

// Generator produces progressions and rhythms from a seeded random source.
// A Generator is not safe for concurrent use; create one per request.
type Generator struct {
	seed  uint64
	rng   *rand.Rand
	cells *CellLibrary
}

// NewGenerator creates a generator whose output is fully determined by seed
// and the default cell library.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewRandomGenerator seeds a generator from the runtime's random source.
func NewRandomGenerator() *Generator {
	return NewGenerator(NewSeed())
}

// NewSeed draws a fresh seed.
func NewSeed() uint64 {
	return rand.Uint64()
}

// WithCells replaces the rhythmic cell library.
func (g *Generator) WithCells(cells *CellLibrary) *Generator {
	g.cells = cells
	return g
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

func (g *Generator) cellLibrary() (*CellLibrary, error) {
	if g.cells != nil {
		return g.cells, nil
	}
	return DefaultCellLibrary()
}

// GenerateProgression is Generator.Progression on a randomly seeded
// generator.
func GenerateProgression(key string, measures, complexity int) ([]string, error) {
	return NewRandomGenerator().Progression(key, measures, complexity)
}

// GenerateRhythm is Generator.Rhythm on a randomly seeded generator.
func GenerateRhythm(meter string, complexity int) ([]Event, error) {
	return NewRandomGenerator().Rhythm(meter, complexity)
}

type weighted[T any] struct {
	value  T
	weight float64
}

// choose draws one value with probability proportional to its weight.
func choose[T any](rng *rand.Rand, items []weighted[T]) (T, error) {
	var zero T
	total := 0.0
	for _, it := range items {
		if it.weight > 0 {
			total += it.weight
		}
	}
	if total <= 0 {
		return zero, fmt.Errorf("%w: no candidates to choose from", theory.ErrGeneration)
	}
	r := rng.Float64() * total
	for _, it := range items {
		if it.weight <= 0 {
			continue
		}
		r -= it.weight
		if r < 0 {
			return it.value, nil
		}
	}
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].weight > 0 {
			return items[i].value, nil
		}
	}
	return zero, fmt.Errorf("%w: no candidates to choose from", theory.ErrGeneration)
}
