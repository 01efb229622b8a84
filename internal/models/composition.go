package models

import (
	"github.com/Conceptual-Machines/magda-harmony/internal/generation"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

// ChordRequest resolves one Roman numeral in a key
type ChordRequest struct {
	Roman    string `json:"roman" binding:"required"`
	Key      string `json:"key" binding:"required"`
	Extended bool   `json:"extended"` // Also return the chord's notes over the whole keyboard
}

// ChordResponse is a resolved chord, with the extended pool when asked for
type ChordResponse struct {
	*theory.ChordInfo
	Pool []int `json:"pool,omitempty"`
}

// ChordBatchRequest resolves several numerals in the same key
type ChordBatchRequest struct {
	Key    string   `json:"key" binding:"required"`
	Romans []string `json:"romans" binding:"required"`
}

// PoolRequest extends arbitrary MIDI notes over the keyboard
type PoolRequest struct {
	Notes []int `json:"notes"`
}

// MeterResponse describes a supported time signature
type MeterResponse struct {
	Beats  int    `json:"beats"`
	Unit   int    `json:"unit"`
	Kind   string `json:"kind"`
	Groups []int  `json:"groups"` // Beat groups, counted in units
}

// ProgressionRequest wraps the progression generation parameters
type ProgressionRequest struct {
	Key        string  `json:"key" binding:"required"`
	Measures   int     `json:"measures"`
	Complexity *int    `json:"complexity,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"` // Optional seed for reproducibility
	Resolve    bool    `json:"resolve"`        // Also resolve every step to notes
}

// ProgressionResponse is a generated progression and the seed that produced it
type ProgressionResponse struct {
	Progression []string            `json:"progression"`
	Seed        uint64              `json:"seed"`
	Chords      []*theory.ChordInfo `json:"chords,omitempty"`
}

// RhythmRequest wraps the rhythm generation parameters
type RhythmRequest struct {
	Meter      string  `json:"meter" binding:"required"`
	Complexity *int    `json:"complexity,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
	Measures   int     `json:"measures"` // Defaults to one measure
}

// RhythmResponse holds one event list per measure
type RhythmResponse struct {
	Measures [][]generation.Event `json:"measures"`
	Seed     uint64               `json:"seed"`
}

// PreviewRequest asks for a rendered MIDI preview
type PreviewRequest struct {
	Key        string  `json:"key" binding:"required"`
	Meter      string  `json:"meter" binding:"required"`
	Measures   int     `json:"measures"`
	Complexity *int    `json:"complexity,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
	Tempo      float64 `json:"tempo,omitempty"` // BPM, defaults to the configured preview tempo
}
