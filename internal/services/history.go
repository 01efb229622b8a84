package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/magda-harmony/internal/models"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var ErrHistoryDisabled = errors.New("generation history is disabled")

// HistoryService stores generated results. A nil DB disables it: Record
// becomes a no-op and List fails with ErrHistoryDisabled.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Enabled reports whether records are persisted
func (s *HistoryService) Enabled() bool {
	return s != nil && s.db != nil
}

// Record saves a generation record
func (s *HistoryService) Record(ctx context.Context, rec *models.GenerationRecord) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// List returns the most recent records first. The limit is clamped to
// 1..MaxHistoryLimit, with DefaultHistoryLimit for non-positive values.
func (s *HistoryService) List(ctx context.Context, limit int) ([]models.GenerationRecord, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records := make([]models.GenerationRecord, 0, limit)
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return records, nil
}

// NewRecord builds a record with result encoded as JSON
func NewRecord(kind string, params RecordParams, result any) (*models.GenerationRecord, error) {
	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", kind, err)
	}
	return &models.GenerationRecord{
		Kind:       kind,
		Key:        params.Key,
		Meter:      params.Meter,
		Measures:   params.Measures,
		Complexity: params.Complexity,
		Seed:       strconv.FormatUint(params.Seed, 10),
		Result:     string(encoded),
	}, nil
}

// RecordParams are the inputs a generation was made from
type RecordParams struct {
	Key        string
	Meter      string
	Measures   int
	Complexity int
	Seed       uint64
}
