package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	trainings, err := s.Trainings(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, trainings)

	meals, err := s.Meals(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)

	training := TrainingRecord{
		Date:      "2026-03-01T10:00:00",
		Duration:  2700,
		Exercises: map[string][]int{"Присідання": {10, 12}, "Берпі": {15}},
		Order:     []string{"Присідання", "Берпі"},
	}
	require.NoError(t, s.AppendTraining(ctx, 42, training))
	require.NoError(t, s.AppendMeal(ctx, 42, MealRecord{Name: "Борщ", Date: "2026-03-01T13:30:00"}))

	// a fresh store reads everything back from disk
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)

	trainings, err := reloaded.Trainings(ctx, 42)
	require.NoError(t, err)
	require.Len(t, trainings, 1)
	assert.Equal(t, training, trainings[0])

	meals, err := reloaded.Meals(ctx, 42)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Борщ", meals[0].Name)

	// other users are untouched
	other, err := reloaded.Trainings(ctx, 43)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFileStoreSnapshotShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.AppendMeal(ctx, 7, MealRecord{Name: "Салат", Date: "2026-03-02T09:00:00"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Contains(t, snap, "trainings")
	assert.Contains(t, snap, "meals")

	var meals map[string][]MealRecord
	require.NoError(t, json.Unmarshal(snap["meals"], &meals))
	assert.Equal(t, "Салат", meals["7"][0].Name)
}

func TestFileStoreCorruptSnapshotDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	trainings, err := s.Trainings(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, trainings)

	// writes still work and replace the corrupt file
	require.NoError(t, s.AppendMeal(context.Background(), 1, MealRecord{Name: "Каша", Date: "2026-03-02T08:00:00"}))
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	meals, err := reloaded.Meals(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, meals, 1)
}

func TestParseDateAcceptedShapes(t *testing.T) {
	for _, value := range []string{
		"2026-03-01T10:00:00",
		"2026-03-01T10:00:00.123456",
		"2026-03-01T10:00:00Z",
		"2026-03-01",
	} {
		_, ok := ParseDate(value)
		assert.True(t, ok, value)
	}

	_, ok := ParseDate("not a date")
	assert.False(t, ok)
}
