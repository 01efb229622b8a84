package theory

// ResolveChord resolves a Roman numeral with optional figures, slash bass or
// secondary target in the named key, and materializes it.
func ResolveChord(romanWithFigures, keyName string) (*ChordInfo, error) {
	key, err := ResolveKey(keyName)
	if err != nil {
		return nil, err
	}
	return ResolveChordInKey(romanWithFigures, key)
}

// ResolveChordInKey is ResolveChord for an already resolved key.
func ResolveChordInKey(romanWithFigures string, key *KeyDescriptor) (*ChordInfo, error) {
	if key == nil {
		return nil, inputErrorf("no key descriptor to resolve %q", romanWithFigures)
	}
	parsed, err := ParseRomanNumeral(romanWithFigures)
	if err != nil {
		return nil, err
	}
	chord, err := ResolveNumeral(parsed.BaseRoman, key)
	if err != nil {
		return nil, err
	}
	tonic, err := key.TonicPitch()
	if err != nil {
		return nil, err
	}
	return materialize(chord, parsed.BassInterval, tonic)
}

// ResolveNumeral returns the chord a base numeral such as "ii7", "bVI" or
// "V7/IV" names in key.
func ResolveNumeral(base string, key *KeyDescriptor) (Chord, error) {
	if key == nil {
		return Chord{}, inputErrorf("no key descriptor to resolve %q", base)
	}
	primary, target := splitSecondary(base)
	if target != "" {
		local, err := secondaryKey(target, key)
		if err != nil {
			return Chord{}, err
		}
		key = local
	}

	n, err := parseNumeral(primary)
	if err != nil {
		return Chord{}, err
	}
	current, err := selectDiatonic(n, key)
	if err != nil {
		return Chord{}, err
	}
	return modifyChord(current, n, key)
}

// secondaryKey builds the temporary key a secondary target tonicizes:
// major for an uppercase target, minor for a lowercase one.
func secondaryKey(target string, key *KeyDescriptor) (*KeyDescriptor, error) {
	n, err := parseNumeral(target)
	if err != nil {
		return nil, err
	}
	symbol, err := selectDiatonic(n, key)
	if err != nil {
		return nil, err
	}
	diatonic, err := ParseChordSymbol(symbol)
	if err != nil {
		return nil, err
	}
	root := diatonic.Root
	if n.accidental != 0 {
		if root, err = root.Shift(n.accidental); err != nil {
			return nil, err
		}
	}

	quality := triadQuality(n, diatonic.Quality)
	if quality != QualityMajor && quality != QualityMinor {
		return nil, theoryErrorf("cannot tonicize %s: its triad is %s", target, quality)
	}
	mode := Major
	if quality == QualityMinor {
		mode = Minor
	}
	return NewKey(root, mode)
}
