package dsl

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Conceptual-Machines/grammar-school-go/gs"

	"github.com/Conceptual-Machines/magda-harmony/internal/generation"
	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const (
	DefaultComplexity  = 5
	DefaultMaxMeasures = 64
)

var (
	ErrEmptyDSL  = fmt.Errorf("%w: empty DSL code", theory.ErrInvalidInput)
	ErrNoActions = fmt.Errorf("%w: no actions found in DSL code", theory.ErrInvalidInput)
	ErrNoKey     = fmt.Errorf("%w: no key selected, add key(name=...) first", theory.ErrInvalidInput)
)

// Options bound what a script may ask for.
type Options struct {
	DefaultComplexity int
	MaxMeasures       int
}

// HarmonyDSLParser parses Harmony DSL code using Grammar School and runs each
// statement against the theory and generation engines. A parser keeps state
// between statements and must not be shared between goroutines.
type HarmonyDSLParser struct {
	engine     *gs.Engine
	harmonyDSL *HarmonyDSL
	actions    []map[string]any
	opts       Options

	ctx       context.Context
	key       *theory.KeyDescriptor
	keyName   string
	generator *generation.Generator
	err       error
}

// HarmonyDSL implements the DSL side-effect methods
type HarmonyDSL struct {
	parser *HarmonyDSLParser
}

// NewHarmonyDSLParser creates a parser drawing from g. A nil generator is
// replaced with a randomly seeded one.
func NewHarmonyDSLParser(g *generation.Generator, opts Options) (*HarmonyDSLParser, error) {
	if g == nil {
		g = generation.NewRandomGenerator()
	}
	if opts.DefaultComplexity == 0 {
		opts.DefaultComplexity = DefaultComplexity
	}
	if opts.MaxMeasures <= 0 {
		opts.MaxMeasures = DefaultMaxMeasures
	}

	parser := &HarmonyDSLParser{
		harmonyDSL: &HarmonyDSL{},
		actions:    make([]map[string]any, 0),
		opts:       opts,
		generator:  g,
	}

	parser.harmonyDSL.parser = parser

	grammar := GetHarmonyDSLGrammar()
	larkParser := gs.NewLarkParser()

	engine, err := gs.NewEngine(grammar, parser.harmonyDSL, larkParser)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	parser.engine = engine
	return parser, nil
}

// Seed returns the seed of the generator currently in use.
func (p *HarmonyDSLParser) Seed() uint64 {
	return p.generator.Seed()
}

// ParseDSL parses DSL code and returns one action per statement.
func (p *HarmonyDSLParser) ParseDSL(ctx context.Context, dslCode string) ([]map[string]any, error) {
	code := normalize(dslCode)
	if code == "" {
		return nil, ErrEmptyDSL
	}

	p.actions = make([]map[string]any, 0)
	p.ctx = ctx
	p.err = nil
	defer func() { p.ctx = nil }()

	if err := p.engine.Execute(ctx, code); err != nil {
		// statement errors carry their kind; engine errors are syntax errors
		if p.err != nil {
			return nil, fmt.Errorf("statement %d: %w", len(p.actions)+1, p.err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: failed to execute DSL: %v", theory.ErrInvalidInput, err)
	}
	if p.err != nil {
		return nil, fmt.Errorf("statement %d: %w", len(p.actions)+1, p.err)
	}

	if len(p.actions) == 0 {
		return nil, ErrNoActions
	}

	logger.Info("Harmony DSL executed", logger.Fields{
		"actions": len(p.actions),
		"seed":    p.generator.Seed(),
	})
	return p.actions, nil
}

// normalize puts one statement per "; " so newline-separated scripts parse
// with the same grammar.
func normalize(code string) string {
	parts := strings.FieldsFunc(code, func(r rune) bool { return r == ';' || r == '\n' })
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			statements = append(statements, s)
		}
	}
	return strings.Join(statements, "; ")
}

// fail records the first statement error so its kind survives the engine.
func (p *HarmonyDSLParser) fail(err error) error {
	if p.err == nil {
		p.err = err
	}
	return err
}

func (p *HarmonyDSLParser) checkContext() error {
	if p.ctx == nil {
		return nil
	}
	return p.ctx.Err()
}

// keyFor returns the key named by the statement, or the current key.
func (p *HarmonyDSLParser) keyFor(args gs.Args) (*theory.KeyDescriptor, string, error) {
	if name := stringArg(args, "key"); name != "" {
		key, err := theory.ResolveKey(name)
		if err != nil {
			return nil, "", err
		}
		return key, name, nil
	}
	if p.key == nil {
		return nil, "", ErrNoKey
	}
	return p.key, p.keyName, nil
}

// ========== Side-effect methods (HarmonyDSL) ==========

// Key handles key() calls - selects the key for the following statements
func (h *HarmonyDSL) Key(args gs.Args) error {
	p := h.parser
	if err := p.checkContext(); err != nil {
		return p.fail(err)
	}

	name := stringArg(args, "name")
	key, err := theory.ResolveKey(name)
	if err != nil {
		return p.fail(fmt.Errorf("key: %w", err))
	}
	p.key = key
	p.keyName = name

	p.actions = append(p.actions, map[string]any{
		"type": "key",
		"name": name,
		"key":  key,
	})
	logger.Debug("DSL key selected", logger.Fields{"key": name})
	return nil
}

// Chord handles chord() calls - resolves a Roman numeral to notes
func (h *HarmonyDSL) Chord(args gs.Args) error {
	p := h.parser
	if err := p.checkContext(); err != nil {
		return p.fail(err)
	}

	roman := stringArg(args, "roman")
	key, keyName, err := p.keyFor(args)
	if err != nil {
		return p.fail(fmt.Errorf("chord: %w", err))
	}
	info, err := theory.ResolveChordInKey(roman, key)
	if err != nil {
		return p.fail(fmt.Errorf("chord %q: %w", roman, err))
	}

	p.actions = append(p.actions, map[string]any{
		"type":  "chord",
		"roman": roman,
		"key":   keyName,
		"chord": info,
	})
	return nil
}

// Pool handles pool() calls - a resolved chord plus its extended note pool
func (h *HarmonyDSL) Pool(args gs.Args) error {
	p := h.parser
	if err := p.checkContext(); err != nil {
		return p.fail(err)
	}

	roman := stringArg(args, "roman")
	key, keyName, err := p.keyFor(args)
	if err != nil {
		return p.fail(fmt.Errorf("pool: %w", err))
	}
	info, err := theory.ResolveChordInKey(roman, key)
	if err != nil {
		return p.fail(fmt.Errorf("pool %q: %w", roman, err))
	}

	p.actions = append(p.actions, map[string]any{
		"type":  "pool",
		"roman": roman,
		"key":   keyName,
		"chord": info,
		"pool":  theory.ExtendPool(info.Notes),
	})
	return nil
}

// Progression handles progression() calls - generates and resolves a progression
func (h *HarmonyDSL) Progression(args gs.Args) error {
	p := h.parser
	if err := p.checkContext(); err != nil {
		return p.fail(err)
	}

	key, keyName, err := p.keyFor(args)
	if err != nil {
		return p.fail(fmt.Errorf("progression: %w", err))
	}
	measures, err := p.measuresArg(args, "progression", 4)
	if err != nil {
		return p.fail(err)
	}
	complexity, err := p.complexityArg(args, "progression")
	if err != nil {
		return p.fail(err)
	}

	progression, err := p.generator.Progression(keyName, measures, complexity)
	if err != nil {
		return p.fail(fmt.Errorf("progression: %w", err))
	}
	chords := make([]*theory.ChordInfo, len(progression))
	for i, step := range progression {
		if chords[i], err = theory.ResolveChordInKey(step, key); err != nil {
			return p.fail(fmt.Errorf("progression step %d: %w", i+1, err))
		}
	}

	p.actions = append(p.actions, map[string]any{
		"type":        "progression",
		"key":         keyName,
		"measures":    measures,
		"complexity":  complexity,
		"seed":        p.generator.Seed(),
		"progression": progression,
		"chords":      chords,
	})
	logger.Debug("DSL progression generated", logger.Fields{
		"key":         keyName,
		"progression": strings.Join(progression, " "),
	})
	return nil
}

// Rhythm handles rhythm() calls - generates one rhythm per measure
func (h *HarmonyDSL) Rhythm(args gs.Args) error {
	p := h.parser
	if err := p.checkContext(); err != nil {
		return p.fail(err)
	}

	meter := stringArg(args, "meter")
	complexity, err := p.complexityArg(args, "rhythm")
	if err != nil {
		return p.fail(err)
	}
	measures, err := p.measuresArg(args, "rhythm", 1)
	if err != nil {
		return p.fail(err)
	}

	rhythms, err := p.generator.Rhythms(meter, complexity, measures)
	if err != nil {
		return p.fail(fmt.Errorf("rhythm: %w", err))
	}

	p.actions = append(p.actions, map[string]any{
		"type":       "rhythm",
		"meter":      meter,
		"complexity": complexity,
		"seed":       p.generator.Seed(),
		"measures":   rhythms,
	})
	return nil
}

// Seed handles seed() calls - restarts the generator from a fixed seed
func (h *HarmonyDSL) Seed(args gs.Args) error {
	p := h.parser

	v, ok := args["value"]
	if !ok || v.Kind != gs.ValueNumber || v.Num < 0 || v.Num != math.Trunc(v.Num) || v.Num > math.MaxInt64 {
		return p.fail(fmt.Errorf("%w: seed: value must be a non-negative integer", theory.ErrInvalidInput))
	}
	seed := uint64(v.Num)
	p.generator = generation.NewGenerator(seed)

	p.actions = append(p.actions, map[string]any{
		"type": "seed",
		"seed": seed,
	})
	return nil
}

func (p *HarmonyDSLParser) measuresArg(args gs.Args, call string, fallback int) (int, error) {
	measures, ok, err := intArg(args, "measures")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", call, err)
	}
	if !ok {
		measures = fallback
	}
	if measures > p.opts.MaxMeasures {
		return 0, fmt.Errorf("%w: %s: at most %d measures", theory.ErrInvalidInput, call, p.opts.MaxMeasures)
	}
	return measures, nil
}

func stringArg(args gs.Args, name string) string {
	if v, ok := args[name]; ok && v.Kind == gs.ValueString {
		return strings.Trim(v.Str, "\"")
	}
	return ""
}

func (p *HarmonyDSLParser) complexityArg(args gs.Args, call string) (int, error) {
	complexity, ok, err := intArg(args, "complexity")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", call, err)
	}
	if !ok {
		return p.opts.DefaultComplexity, nil
	}
	return complexity, nil
}

// maxIntArg keeps numeric arguments well inside the int range before conversion.
const maxIntArg = 1 << 31

// intArg reads a whole-number argument. Fractions and out-of-range values are
// InvalidInput rather than being truncated.
func intArg(args gs.Args, name string) (int, bool, error) {
	v, ok := args[name]
	if !ok || v.Kind != gs.ValueNumber {
		return 0, false, nil
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, false, fmt.Errorf("%w: %s must be an integer, got %v", theory.ErrInvalidInput, name, v.Num)
	}
	if v.Num > maxIntArg || v.Num < -maxIntArg {
		return 0, false, fmt.Errorf("%w: %s out of range: %v", theory.ErrInvalidInput, name, v.Num)
	}
	return int(v.Num), true, nil
}
