package generation

import (
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const (
	minComplexity = 0
	maxComplexity = 10
)

type harmonicFunction int

const (
	functionTonic harmonicFunction = iota
	functionSubdominant
	functionDominant
	functionTonicSubstitute
)

// progressionChord is one entry of the progression vocabulary.
type progressionChord struct {
	numeral    string
	function   harmonicFunction
	submediant bool
	weight     float64
}

type vocabulary struct {
	tonic       progressionChord
	subdominant progressionChord
	supertonic  progressionChord
	mediant     progressionChord
	dominant    progressionChord
	dominant7   progressionChord
	submediant  progressionChord
	leading     progressionChord
	leading7    progressionChord
}

var majorVocabulary = vocabulary{
	tonic:       progressionChord{"I", functionTonic, false, 3},
	subdominant: progressionChord{"IV", functionSubdominant, false, 3},
	supertonic:  progressionChord{"ii", functionSubdominant, false, 2},
	mediant:     progressionChord{"iii", functionTonicSubstitute, false, 1},
	dominant:    progressionChord{"V", functionDominant, false, 3},
	dominant7:   progressionChord{"V7", functionDominant, false, 3},
	submediant:  progressionChord{"vi", functionTonicSubstitute, true, 2},
	leading:     progressionChord{"vii°", functionDominant, false, 1},
	leading7:    progressionChord{"vii°7", functionDominant, false, 1},
}

var minorVocabulary = vocabulary{
	tonic:       progressionChord{"i", functionTonic, false, 3},
	subdominant: progressionChord{"iv", functionSubdominant, false, 3},
	supertonic:  progressionChord{"ii°", functionSubdominant, false, 2},
	mediant:     progressionChord{"III", functionTonicSubstitute, false, 1},
	dominant:    progressionChord{"V", functionDominant, false, 3},
	dominant7:   progressionChord{"V7", functionDominant, false, 3},
	submediant:  progressionChord{"VI", functionTonicSubstitute, true, 2},
	leading:     progressionChord{"vii°", functionDominant, false, 1},
	leading7:    progressionChord{"vii°7", functionDominant, false, 1},
}

// allowedChords returns the vocabulary available at a complexity level.
func (v vocabulary) allowedChords(complexity int) []progressionChord {
	chords := []progressionChord{v.tonic, v.subdominant}
	if complexity >= 4 {
		chords = append(chords, v.dominant7)
	} else {
		chords = append(chords, v.dominant)
	}
	if complexity >= 3 {
		chords = append(chords, v.submediant, v.supertonic)
	}
	if complexity >= 6 {
		chords = append(chords, v.mediant)
		if complexity >= 8 {
			chords = append(chords, v.leading7)
		} else {
			chords = append(chords, v.leading)
		}
	}
	return chords
}

// cadentialChord picks the penultimate chord: dominant seventh, dominant,
// subdominant, else tonic.
func (v vocabulary) cadentialChord(allowed []progressionChord) progressionChord {
	for _, want := range []progressionChord{v.dominant7, v.dominant, v.subdominant} {
		for _, c := range allowed {
			if c.numeral == want.numeral {
				return c
			}
		}
	}
	return v.tonic
}

// prefers reports whether a move from one chord to another follows the
// functional tendency of the first.
func prefers(from, to progressionChord) bool {
	switch from.function {
	case functionDominant:
		return to.function == functionTonic || to.submediant
	case functionSubdominant:
		return to.function == functionDominant || to.function == functionTonic
	case functionTonicSubstitute:
		return to.function == functionSubdominant || to.function == functionDominant
	default:
		return to.function != functionTonic
	}
}

// tendencyProbability is the chance of honoring the preferred targets.
func tendencyProbability(complexity int) float64 {
	return 0.55 + 0.04*float64(complexity)
}

// Progression produces one Roman numeral per measure in key. The first and
// last measures are the tonic and the penultimate measure is cadential.
// Complexity is clamped to 0-10; a non-positive measure count yields an
// empty progression.
func (g *Generator) Progression(key string, measures, complexity int) ([]string, error) {
	k, err := theory.ResolveKey(key)
	if err != nil {
		return nil, err
	}
	if measures <= 0 {
		return []string{}, nil
	}
	complexity = clamp(complexity, minComplexity, maxComplexity)

	vocab := majorVocabulary
	if k.Mode == theory.Minor {
		vocab = minorVocabulary
	}
	allowed := vocab.allowedChords(complexity)

	steps := make([]progressionChord, measures)
	steps[0] = vocab.tonic
	steps[measures-1] = vocab.tonic
	if measures >= 3 {
		steps[measures-2] = vocab.cadentialChord(allowed)
	}
	for i := 1; i < measures-2; i++ {
		// the walk must not run into the fixed cadential chord
		var following *progressionChord
		if i == measures-3 {
			following = &steps[measures-2]
		}
		next, err := g.nextChord(steps[i-1], following, allowed, complexity)
		if err != nil {
			return nil, err
		}
		steps[i] = next
	}

	out := make([]string, measures)
	for i, s := range steps {
		out[i] = s.numeral
	}
	return out, nil
}

// nextChord draws the chord after prev, avoiding prev and, when set, the
// chord that follows. It falls back to allowed when nothing else is left.
func (g *Generator) nextChord(prev progressionChord, following *progressionChord, allowed []progressionChord, complexity int) (progressionChord, error) {
	candidates := make([]progressionChord, 0, len(allowed))
	for _, c := range allowed {
		if c.numeral == prev.numeral || (following != nil && c.numeral == following.numeral) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		candidates = allowed
	}

	var preferred []progressionChord
	for _, c := range candidates {
		if prefers(prev, c) {
			preferred = append(preferred, c)
		}
	}
	pool := candidates
	if len(preferred) > 0 && g.rng.Float64() < tendencyProbability(complexity) {
		pool = preferred
	}

	items := make([]weighted[progressionChord], len(pool))
	for i, c := range pool {
		items[i] = weighted[progressionChord]{value: c, weight: c.weight}
	}
	return choose(g.rng, items)
}

// Realize resolves every step of a progression in key.
func Realize(key string, steps []string) ([]*theory.ChordInfo, error) {
	k, err := theory.ResolveKey(key)
	if err != nil {
		return nil, err
	}
	chords := make([]*theory.ChordInfo, len(steps))
	for i, step := range steps {
		info, err := theory.ResolveChordInKey(step, k)
		if err != nil {
			return nil, err
		}
		chords[i] = info
	}
	return chords, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
