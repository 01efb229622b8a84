package theory

import (
	"strings"
)

// Quality is the triad type of a chord.
type Quality int

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
	QualityAugmented
	QualitySuspended
)

func (q Quality) String() string {
	switch q {
	case QualityMajor:
		return "major"
	case QualityMinor:
		return "minor"
	case QualityDiminished:
		return "diminished"
	case QualityAugmented:
		return "augmented"
	case QualitySuspended:
		return "suspended"
	}
	return "unknown"
}

// Seventh is the color of the seventh stacked on a triad, if any.
type Seventh int

const (
	NoSeventh Seventh = iota
	MinorSeventh
	MajorSeventh
	DiminishedSeventh
)

func (s Seventh) String() string {
	switch s {
	case NoSeventh:
		return "none"
	case MinorSeventh:
		return "minor"
	case MajorSeventh:
		return "major"
	case DiminishedSeventh:
		return "diminished"
	}
	return "unknown"
}

// Chord is the structured form of a chord symbol. Symbol and
// ParseChordSymbol convert to and from the string form used at the API
// boundary.
type Chord struct {
	Root    Pitch
	Quality Quality
	Seventh Seventh
}

type chordShape struct {
	quality Quality
	seventh Seventh
}

// chordSuffixes lists the canonical suffix for every valid shape.
var chordSuffixes = map[chordShape]string{
	{QualityMajor, NoSeventh}:              "M",
	{QualityMajor, MinorSeventh}:           "7",
	{QualityMajor, MajorSeventh}:           "M7",
	{QualityMinor, NoSeventh}:              "m",
	{QualityMinor, MinorSeventh}:           "m7",
	{QualityMinor, MajorSeventh}:           "mM7",
	{QualityDiminished, NoSeventh}:         "dim",
	{QualityDiminished, MinorSeventh}:      "m7b5",
	{QualityDiminished, DiminishedSeventh}: "dim7",
	{QualityAugmented, NoSeventh}:          "aug",
	{QualityAugmented, MinorSeventh}:       "aug7",
	{QualitySuspended, NoSeventh}:          "sus4",
	{QualitySuspended, MinorSeventh}:       "7sus4",
}

// suffixAliases maps every accepted suffix spelling to its shape.
var suffixAliases = map[string]chordShape{
	"":      {QualityMajor, NoSeventh},
	"M":     {QualityMajor, NoSeventh},
	"maj":   {QualityMajor, NoSeventh},
	"7":     {QualityMajor, MinorSeventh},
	"dom7":  {QualityMajor, MinorSeventh},
	"M7":    {QualityMajor, MajorSeventh},
	"maj7":  {QualityMajor, MajorSeventh},
	"m":     {QualityMinor, NoSeventh},
	"min":   {QualityMinor, NoSeventh},
	"m7":    {QualityMinor, MinorSeventh},
	"min7":  {QualityMinor, MinorSeventh},
	"mM7":   {QualityMinor, MajorSeventh},
	"mmaj7": {QualityMinor, MajorSeventh},
	"dim":   {QualityDiminished, NoSeventh},
	"°":     {QualityDiminished, NoSeventh},
	"o":     {QualityDiminished, NoSeventh},
	"m7b5":  {QualityDiminished, MinorSeventh},
	"ø7":    {QualityDiminished, MinorSeventh},
	"ø":     {QualityDiminished, MinorSeventh},
	"hd7":   {QualityDiminished, MinorSeventh},
	"dim7":  {QualityDiminished, DiminishedSeventh},
	"°7":    {QualityDiminished, DiminishedSeventh},
	"o7":    {QualityDiminished, DiminishedSeventh},
	"aug":   {QualityAugmented, NoSeventh},
	"+":     {QualityAugmented, NoSeventh},
	"aug7":  {QualityAugmented, MinorSeventh},
	"+7":    {QualityAugmented, MinorSeventh},
	"sus4":  {QualitySuspended, NoSeventh},
	"sus":   {QualitySuspended, NoSeventh},
	"7sus4": {QualitySuspended, MinorSeventh},
	"7sus":  {QualitySuspended, MinorSeventh},
}

// Valid reports whether the quality and seventh combine into a chord with a
// symbol.
func (c Chord) Valid() bool {
	_, ok := chordSuffixes[chordShape{c.Quality, c.Seventh}]
	return ok
}

// Symbol renders the chord as root name plus canonical suffix, e.g. "CM",
// "F#dim7", "Bbm7b5". Invalid chords render as an empty string.
func (c Chord) Symbol() string {
	suffix, ok := chordSuffixes[chordShape{c.Quality, c.Seventh}]
	if !ok {
		return ""
	}
	return c.Root.Name() + suffix
}

func (c Chord) String() string {
	return c.Symbol()
}

// Intervals returns the chord's semitone offsets above the root,
// ascending: three for triads, four for seventh chords.
func (c Chord) Intervals() []int {
	third, fifth := triadIntervals(c.Quality)
	out := []int{0, third, fifth}
	if s := seventhInterval(c.Seventh); s > 0 {
		out = append(out, s)
	}
	return out
}

// Tones spells every chord tone by stacking letters above the root.
func (c Chord) Tones() ([]Pitch, error) {
	if !c.Valid() {
		return nil, theoryErrorf("%s triad cannot take a %s seventh", c.Quality, c.Seventh)
	}
	intervals := c.Intervals()
	letterSteps := []int{0, 2, 4, 6}
	if c.Quality == QualitySuspended {
		letterSteps[1] = 3
	}
	tones := make([]Pitch, len(intervals))
	for i, semis := range intervals {
		p, err := c.Root.Up(letterSteps[i], semis)
		if err != nil {
			return nil, err
		}
		tones[i] = p
	}
	return tones, nil
}

// PitchClasses returns the chord's pitch classes in root-position order.
func (c Chord) PitchClasses() []int {
	root := c.Root.Class()
	intervals := c.Intervals()
	out := make([]int, len(intervals))
	for i, semis := range intervals {
		out[i] = mod(root+semis, semitonesPerOctave)
	}
	return out
}

// ParseChordSymbol reads a symbol such as "CM", "F#dim7", "Bbm7b5" or
// "Eø7". Common aliases for each suffix are accepted.
func ParseChordSymbol(symbol string) (Chord, error) {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return Chord{}, theoryErrorf("empty chord symbol")
	}
	end := 1
	for end < len(s) && strings.IndexByte("#bx", s[end]) >= 0 {
		end++
	}
	root, err := ParsePitch(s[:end])
	if err != nil {
		return Chord{}, theoryErrorf("chord symbol %q: %v", symbol, err)
	}
	shape, ok := suffixAliases[s[end:]]
	if !ok {
		return Chord{}, theoryErrorf("chord symbol %q: unknown suffix %q", symbol, s[end:])
	}
	return Chord{Root: root, Quality: shape.quality, Seventh: shape.seventh}, nil
}

func triadIntervals(q Quality) (third, fifth int) {
	switch q {
	case QualityMinor:
		return 3, 7
	case QualityDiminished:
		return 3, 6
	case QualityAugmented:
		return 4, 8
	case QualitySuspended:
		return 5, 7
	}
	return 4, 7
}

func seventhInterval(s Seventh) int {
	switch s {
	case MinorSeventh:
		return 10
	case MajorSeventh:
		return 11
	case DiminishedSeventh:
		return 9
	}
	return 0
}

func triadQualityFromIntervals(third, fifth int) (Quality, bool) {
	switch {
	case third == 4 && fifth == 7:
		return QualityMajor, true
	case third == 3 && fifth == 7:
		return QualityMinor, true
	case third == 3 && fifth == 6:
		return QualityDiminished, true
	case third == 4 && fifth == 8:
		return QualityAugmented, true
	case third == 5 && fifth == 7:
		return QualitySuspended, true
	}
	return 0, false
}
