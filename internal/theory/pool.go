package theory

// Pitch bounds of the 88-key piano, A0 to C8.
const (
	LowestPoolNote  = 21
	HighestPoolNote = 108
)

// ExtendPool returns every pitch in the piano range that shares a pitch
// class with one of notes, ascending.
func ExtendPool(notes []int) []int {
	var classes [semitonesPerOctave]bool
	for _, n := range notes {
		classes[mod(n, semitonesPerOctave)] = true
	}
	pool := []int{}
	for p := LowestPoolNote; p <= HighestPoolNote; p++ {
		if classes[p%semitonesPerOctave] {
			pool = append(pool, p)
		}
	}
	return pool
}
