package theory

// DiatonicChord returns the chord symbol built on a 0-based scale degree.
// Minor keys draw degrees V and vii from the harmonic variant and every
// other degree from the natural variant. numeral is only used in error
// messages.
func DiatonicChord(degree int, key *KeyDescriptor, numeral string) (string, error) {
	if key == nil {
		return "", inputErrorf("no key descriptor to resolve %q", numeral)
	}
	if degree < 0 || degree >= scaleLength {
		return "", theoryErrorf("scale degree %d of %q is out of range", degree+1, numeral)
	}

	var chords []string
	switch key.Mode {
	case Major:
		chords = key.Chords
	case Minor:
		variant, name := key.Natural, "natural"
		if usesHarmonicMinor(degree) {
			variant, name = key.Harmonic, "harmonic"
		}
		if variant == nil {
			return "", theoryErrorf("minor key %s has no %s variant for %q", key.Tonic, name, numeral)
		}
		chords = variant.Chords
	default:
		return "", inputErrorf("key %s has unknown mode %q", key.Tonic, key.Mode)
	}

	if len(chords) <= degree {
		return "", theoryErrorf("key %s lists %d chords, %q needs degree %d", key.Tonic, len(chords), numeral, degree+1)
	}
	return chords[degree], nil
}

func usesHarmonicMinor(degree int) bool {
	return degree == 4 || degree == 6
}

// selectDiatonic picks the chord a numeral starts from. In minor keys a
// dominant or leading-tone numeral whose case contradicts the harmonic
// triad ("v", "VII") takes the natural-minor chord instead.
func selectDiatonic(n numeral, key *KeyDescriptor) (string, error) {
	symbol, err := DiatonicChord(n.degree, key, n.text)
	if err != nil {
		return "", err
	}
	if key.Mode != Minor || !usesHarmonicMinor(n.degree) || n.token.hasQuality || key.Natural == nil {
		return symbol, nil
	}
	harmonic, err := ParseChordSymbol(symbol)
	if err != nil {
		return "", err
	}
	if caseMatches(harmonic.Quality, n.upper) || len(key.Natural.Chords) <= n.degree {
		return symbol, nil
	}
	natural, err := ParseChordSymbol(key.Natural.Chords[n.degree])
	if err != nil {
		return "", err
	}
	if caseMatches(natural.Quality, n.upper) {
		return key.Natural.Chords[n.degree], nil
	}
	return symbol, nil
}

// caseMatches reports whether a triad quality agrees with the case of its
// numeral: uppercase for major and augmented, lowercase for minor and
// diminished.
func caseMatches(q Quality, upper bool) bool {
	switch q {
	case QualityMajor, QualityAugmented:
		return upper
	case QualityMinor, QualityDiminished:
		return !upper
	}
	return false
}

// governingScale returns the spelled scale whose triad on degree is the
// given diatonic chord. Seventh inference stacks from this scale.
func (k *KeyDescriptor) governingScale(degree int, diatonic Chord) ([]Pitch, error) {
	if k.Mode != Minor {
		return k.scalePitches()
	}

	candidates := []*ScaleVariant{k.Natural, k.Harmonic, k.Melodic}
	if usesHarmonicMinor(degree) {
		candidates = []*ScaleVariant{k.Harmonic, k.Natural, k.Melodic}
	}
	var first []Pitch
	for _, v := range candidates {
		if v == nil {
			continue
		}
		scale, err := v.scalePitches()
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = scale
		}
		triad, err := diatonicTriad(scale, degree)
		if err != nil {
			continue
		}
		if triad.Root == diatonic.Root && triad.Quality == diatonic.Quality {
			return scale, nil
		}
	}
	if first != nil {
		return first, nil
	}
	return k.scalePitches()
}
