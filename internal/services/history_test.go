package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Conceptual-Machines/magda-harmony/internal/database"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestHistoryService_RecordAndList(t *testing.T) {
	ctx := context.Background()
	service := NewHistoryService(setupTestDB(t))
	require.True(t, service.Enabled())

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec, err := NewRecord(models.KindProgression, RecordParams{
			Key:        "C",
			Measures:   4,
			Complexity: i,
			Seed:       uint64(i),
		}, []string{"I", "IV", "V", "I"})
		require.NoError(t, err)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, service.Record(ctx, rec))
		assert.Len(t, rec.ID, 36)
	}

	records, err := service.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 4, records[0].Complexity)
	assert.Equal(t, 2, records[2].Complexity)
	assert.Equal(t, "4", records[0].Seed)

	var steps []string
	require.NoError(t, json.Unmarshal([]byte(records[0].Result), &steps))
	assert.Equal(t, []string{"I", "IV", "V", "I"}, steps)

	all, err := service.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestHistoryService_LargeSeed(t *testing.T) {
	ctx := context.Background()
	service := NewHistoryService(setupTestDB(t))

	rec, err := NewRecord(models.KindRhythm, RecordParams{Meter: "6/8", Seed: ^uint64(0)}, [][]int{{4, 8}})
	require.NoError(t, err)
	require.NoError(t, service.Record(ctx, rec))

	records, err := service.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "18446744073709551615", records[0].Seed)
	assert.Equal(t, "6/8", records[0].Meter)
}

func TestHistoryService_Disabled(t *testing.T) {
	service := NewHistoryService(nil)
	assert.False(t, service.Enabled())

	rec, err := NewRecord(models.KindDSL, RecordParams{}, map[string]any{"actions": 1})
	require.NoError(t, err)
	assert.NoError(t, service.Record(context.Background(), rec))

	_, err = service.List(context.Background(), 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestNewRecordRejectsUnencodable(t *testing.T) {
	_, err := NewRecord(models.KindPreview, RecordParams{}, make(chan int))
	assert.Error(t, err)
}
