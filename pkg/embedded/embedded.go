package embedded

import (
	_ "embed"
)

// RhythmCellsYAML is the default rhythmic cell library.
//
//go:embed data/rhythm_cells.yaml
var RhythmCellsYAML []byte
