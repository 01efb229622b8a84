package preview

import (
	"github.com/Conceptual-Machines/magda-harmony/internal/generation"
)

// Request asks for a generated preview.
type Request struct {
	Key        string
	Meter      string
	Measures   int
	Complexity int
	Tempo      float64
}

// Composition is a generated progression with one rhythm per measure,
// ready to render.
type Composition struct {
	Progression []string
	Input       Input
}

// Compose generates a progression and a rhythm for every measure and
// resolves each step to concrete notes.
func Compose(g *generation.Generator, req Request) (*Composition, error) {
	progression, err := g.Progression(req.Key, req.Measures, req.Complexity)
	if err != nil {
		return nil, err
	}
	chords, err := generation.Realize(req.Key, progression)
	if err != nil {
		return nil, err
	}
	rhythms, err := g.Rhythms(req.Meter, req.Complexity, len(progression))
	if err != nil {
		return nil, err
	}

	measures := make([]Measure, len(progression))
	for i := range progression {
		measures[i] = Measure{Chord: chords[i], Rhythm: rhythms[i]}
	}
	return &Composition{
		Progression: progression,
		Input: Input{
			Meter:    req.Meter,
			Tempo:    req.Tempo,
			Measures: measures,
		},
	}, nil
}
