package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation kinds stored in the history
const (
	KindProgression = "progression"
	KindRhythm      = "rhythm"
	KindPreview     = "preview"
	KindDSL         = "dsl"
)

// GenerationRecord is one generated result kept in the history.
// Seed is stored as text since seeds use the full uint64 range.
type GenerationRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	Kind       string    `gorm:"not null;index;size:32" json:"kind"`
	Key        string    `gorm:"size:64" json:"key,omitempty"`
	Meter      string    `gorm:"size:16" json:"meter,omitempty"`
	Measures   int       `json:"measures"`
	Complexity int       `json:"complexity"`
	Seed       string    `gorm:"size:20" json:"seed"`
	Result     string    `gorm:"type:text" json:"result"` // JSON encoded result
}

// BeforeCreate assigns a random UUID when none is set
func (r *GenerationRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
