package theory

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RootPosition is the bass interval of an uninverted chord.
const RootPosition = "1"

// ParsedRomanNumeral splits a chord label into the numeral that names the
// chord and the interval above the root that must sound in the bass.
type ParsedRomanNumeral struct {
	BaseRoman    string `json:"base_roman"`
	BassInterval string `json:"bass_interval"`
}

type figure struct {
	digits  string
	bass    string
	seventh bool
}

// figures are matched longest first so "65" wins over a trailing "5".
var figures = []figure{
	{"64", "5", false},
	{"65", "3", true},
	{"43", "5", true},
	{"42", "7", true},
	{"6", "3", false},
	{"2", "7", true},
}

// ParseRomanNumeral decomposes labels such as "V65/IV", "iiø7", "bVI6" or
// "IV/5". A secondary target ("/V", "/ii") stays part of BaseRoman; any
// other text after a slash is taken as the bass interval verbatim and only
// checked when the chord is materialized. Input is NFKC folded, so "viiº7"
// reads as "viio7" and full-width "Ｖ７" as "V7".
func ParseRomanNumeral(s string) (ParsedRomanNumeral, error) {
	input := strings.TrimSpace(norm.NFKC.String(s))
	if input == "" {
		return ParsedRomanNumeral{}, inputErrorf("empty roman numeral")
	}

	primary, target := input, ""
	if i := strings.LastIndexByte(input, '/'); i >= 0 && isSecondaryTarget(input[i+1:]) {
		primary, target = input[:i], input[i+1:]
	}

	var parsed ParsedRomanNumeral
	if i := strings.IndexByte(primary, '/'); i >= 0 {
		base, bass := strings.TrimSpace(primary[:i]), strings.TrimSpace(primary[i+1:])
		if base == "" {
			return ParsedRomanNumeral{}, theoryErrorf("roman numeral %q has nothing before the slash", s)
		}
		if bass == "" {
			return ParsedRomanNumeral{}, theoryErrorf("roman numeral %q has no bass interval after the slash", s)
		}
		parsed = ParsedRomanNumeral{BaseRoman: base, BassInterval: bass}
	} else {
		parsed = splitFigure(primary)
	}

	if _, err := parseNumeral(parsed.BaseRoman); err != nil {
		return ParsedRomanNumeral{}, err
	}
	if target != "" {
		parsed.BaseRoman += "/" + target
	}
	return parsed, nil
}

func splitFigure(s string) ParsedRomanNumeral {
	for _, f := range figures {
		if !strings.HasSuffix(s, f.digits) {
			continue
		}
		base := strings.TrimSuffix(s, f.digits)
		if base == "" {
			break
		}
		if f.seventh && !strings.HasSuffix(base, "7") {
			base += "7"
		}
		return ParsedRomanNumeral{BaseRoman: base, BassInterval: f.bass}
	}
	return ParsedRomanNumeral{BaseRoman: s, BassInterval: RootPosition}
}

// numeral is a parsed base numeral: accidental prefix, scale degree, case
// and inline quality token.
type numeral struct {
	text       string
	accidental int
	degree     int
	upper      bool
	token      qualityToken
}

// qualityToken is the inline quality written after a numeral. seventh is
// an explicit color; generic marks a bare "7" whose color is inferred.
type qualityToken struct {
	quality    Quality
	hasQuality bool
	seventh    Seventh
	generic    bool
}

func withQuality(q Quality, s Seventh) qualityToken {
	return qualityToken{quality: q, hasQuality: true, seventh: s}
}

var qualityTokens = map[string]qualityToken{
	"":      {},
	"7":     {generic: true},
	"dim":   withQuality(QualityDiminished, NoSeventh),
	"o":     withQuality(QualityDiminished, NoSeventh),
	"°":     withQuality(QualityDiminished, NoSeventh),
	"dim7":  withQuality(QualityDiminished, DiminishedSeventh),
	"o7":    withQuality(QualityDiminished, DiminishedSeventh),
	"°7":    withQuality(QualityDiminished, DiminishedSeventh),
	"ø":     withQuality(QualityDiminished, MinorSeventh),
	"ø7":    withQuality(QualityDiminished, MinorSeventh),
	"hd":    withQuality(QualityDiminished, MinorSeventh),
	"hd7":   withQuality(QualityDiminished, MinorSeventh),
	"m7b5":  withQuality(QualityDiminished, MinorSeventh),
	"dimM7": withQuality(QualityDiminished, MajorSeventh),
	"oM7":   withQuality(QualityDiminished, MajorSeventh),
	"°M7":   withQuality(QualityDiminished, MajorSeventh),
	"m":     withQuality(QualityMinor, NoSeventh),
	"min":   withQuality(QualityMinor, NoSeventh),
	"m7":    withQuality(QualityMinor, MinorSeventh),
	"min7":  withQuality(QualityMinor, MinorSeventh),
	"mM7":   withQuality(QualityMinor, MajorSeventh),
	"mmaj7": withQuality(QualityMinor, MajorSeventh),
	"M":     withQuality(QualityMajor, NoSeventh),
	"maj":   withQuality(QualityMajor, NoSeventh),
	"M7":    {seventh: MajorSeventh},
	"maj7":  {seventh: MajorSeventh},
	"aug":   withQuality(QualityAugmented, NoSeventh),
	"+":     withQuality(QualityAugmented, NoSeventh),
	"aug7":  withQuality(QualityAugmented, MinorSeventh),
	"+7":    withQuality(QualityAugmented, MinorSeventh),
	"augM7": withQuality(QualityAugmented, MajorSeventh),
	"+M7":   withQuality(QualityAugmented, MajorSeventh),
	"sus":   withQuality(QualitySuspended, NoSeventh),
	"sus4":  withQuality(QualitySuspended, NoSeventh),
	"sus7":  withQuality(QualitySuspended, MinorSeventh),
	"7sus4": withQuality(QualitySuspended, MinorSeventh),
	"susM7": withQuality(QualitySuspended, MajorSeventh),
}

// wantsSeventh reports whether the token asks for any seventh.
func (t qualityToken) wantsSeventh() bool {
	return t.generic || t.seventh != NoSeventh
}

var numeralPattern = regexp.MustCompile(`^([#b]?)(VII|VI|IV|V|III|II|I|vii|vi|iv|v|iii|ii|i)(.*)$`)

var numeralDegrees = map[string]int{
	"i": 0, "ii": 1, "iii": 2, "iv": 3, "v": 4, "vi": 5, "vii": 6,
}

func parseNumeral(s string) (numeral, error) {
	m := numeralPattern.FindStringSubmatch(s)
	if m == nil {
		return numeral{}, theoryErrorf("%q is not a roman numeral", s)
	}
	token, ok := qualityTokens[m[3]]
	if !ok {
		return numeral{}, theoryErrorf("roman numeral %q has unknown quality %q", s, m[3])
	}
	n := numeral{
		text:   s,
		degree: numeralDegrees[strings.ToLower(m[2])],
		upper:  m[2] == strings.ToUpper(m[2]),
		token:  token,
	}
	switch m[1] {
	case "#":
		n.accidental = 1
	case "b":
		n.accidental = -1
	}
	return n, nil
}

// isSecondaryTarget reports whether s names a chord another numeral can be
// applied to: a bare numeral with optional accidental and no quality.
func isSecondaryTarget(s string) bool {
	m := numeralPattern.FindStringSubmatch(s)
	return m != nil && m[3] == ""
}

// splitSecondary separates "V7/IV" into "V7" and "IV".
func splitSecondary(base string) (primary, target string) {
	if i := strings.LastIndexByte(base, '/'); i >= 0 && isSecondaryTarget(base[i+1:]) {
		return base[:i], base[i+1:]
	}
	return base, ""
}
