package theory

// ModifyChord applies the quality and seventh written in a numeral to the
// diatonic chord on degree and returns the final chord symbol.
func ModifyChord(current, numeralText string, key *KeyDescriptor, degree int) (string, error) {
	if key == nil {
		return "", inputErrorf("no key descriptor to modify %q", numeralText)
	}
	primary, _ := splitSecondary(numeralText)
	n, err := parseNumeral(primary)
	if err != nil {
		return "", err
	}
	n.degree = degree
	chord, err := modifyChord(current, n, key)
	if err != nil {
		return "", err
	}
	return chord.Symbol(), nil
}

// chordStrategy is one way of building the final chord. Strategies are
// tried in order and the first valid chord wins.
type chordStrategy struct {
	name  string
	build func() (Chord, bool)
}

func modifyChord(current string, n numeral, key *KeyDescriptor) (Chord, error) {
	if n.degree < 0 || n.degree >= scaleLength {
		return Chord{}, theoryErrorf("scale degree %d of %q is out of range", n.degree+1, n.text)
	}
	diatonic, err := ParseChordSymbol(current)
	if err != nil {
		return Chord{}, err
	}
	scale, err := key.governingScale(n.degree, diatonic)
	if err != nil {
		return Chord{}, err
	}

	root := diatonic.Root
	if n.accidental != 0 {
		if root, err = root.Shift(n.accidental); err != nil {
			return Chord{}, err
		}
	}

	quality := triadQuality(n, diatonic.Quality)
	requested := n.token.seventh
	if n.token.generic {
		requested = MinorSeventh
		if quality == diatonic.Quality && n.accidental == 0 {
			requested = diatonicSeventh(scale, n.degree)
		}
	}
	ownSeventh := diatonicSeventh(scale, n.degree)

	strategies := []chordStrategy{
		{"requested", func() (Chord, bool) {
			c := Chord{Root: root, Quality: quality, Seventh: requested}
			return c, c.Valid()
		}},
		{"nearest standard seventh", func() (Chord, bool) {
			switch {
			case quality == QualityAugmented && requested != NoSeventh:
				return Chord{Root: root, Quality: QualityAugmented, Seventh: MinorSeventh}, true
			case quality == QualityDiminished && requested == MajorSeventh:
				return Chord{Root: root, Quality: QualityDiminished, Seventh: DiminishedSeventh}, true
			}
			return Chord{}, false
		}},
		{"diatonic with requested seventh", func() (Chord, bool) {
			c := Chord{Root: root, Quality: diatonic.Quality, Seventh: requested}
			return c, c.Valid()
		}},
		{"diatonic seventh", func() (Chord, bool) {
			c := Chord{Root: root, Quality: diatonic.Quality, Seventh: ownSeventh}
			return c, c.Valid()
		}},
	}

	for _, s := range strategies {
		if c, ok := s.build(); ok {
			return c, nil
		}
	}
	return Chord{}, theoryErrorf("%q does not resolve to a chord on %s", n.text, diatonic.Root.Name())
}

// triadQuality is the explicit quality of the numeral, or the diatonic
// quality adjusted to the numeral's case.
func triadQuality(n numeral, diatonic Quality) Quality {
	if n.token.hasQuality {
		return n.token.quality
	}
	if caseMatches(diatonic, n.upper) {
		return diatonic
	}
	if n.upper {
		return QualityMajor
	}
	return QualityMinor
}
