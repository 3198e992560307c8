package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsStartRecordEnd(t *testing.T) {
	s := NewSessions()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	discarded := s.Start(7, start)
	assert.Equal(t, 0, discarded)
	assert.True(t, s.InProgress(7))

	s.RecordSet(7, "Присідання", 10)
	s.RecordSet(7, "Віджимання", 15)
	s.RecordSet(7, "Присідання", 12)

	res, err := s.End(7, end)
	require.NoError(t, err)
	assert.Equal(t, start, res.StartedAt)
	assert.Equal(t, end, res.EndedAt)
	assert.Equal(t, 45*time.Minute, res.Duration)
	assert.Equal(t, []int{10, 12}, res.Exercises["Присідання"])
	assert.Equal(t, []int{15}, res.Exercises["Віджимання"])
	assert.Equal(t, []string{"Присідання", "Віджимання"}, res.Order)

	assert.False(t, s.InProgress(7))
	_, err = s.End(7, end)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSessionsEndWithoutStart(t *testing.T) {
	s := NewSessions()
	_, err := s.End(1, time.Now())
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSessionsRecordWithoutStartDoesNotActivate(t *testing.T) {
	s := NewSessions()
	s.RecordSet(1, "Планка", 5)

	assert.False(t, s.InProgress(1))
	_, err := s.End(1, time.Now())
	assert.ErrorIs(t, err, ErrNoActiveSession)
	// the recorded set is still visible to the catalog
	assert.Equal(t, []string{"Планка"}, s.ExerciseNames(1))
}

func TestSessionsRestartDiscardsSets(t *testing.T) {
	s := NewSessions()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s.Start(5, start)
	s.RecordSet(5, "Берпі", 10)
	s.RecordSet(5, "Берпі", 10)
	s.RecordSet(5, "Випади", 8)

	restart := start.Add(5 * time.Minute)
	discarded := s.Start(5, restart)
	assert.Equal(t, 3, discarded)

	res, err := s.End(5, restart.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, restart, res.StartedAt)
	assert.Empty(t, res.Exercises)
	assert.Empty(t, res.Order)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	s := NewSessions()
	now := time.Now()

	s.Start(1, now)
	s.RecordSet(1, "Присідання", 10)

	_, err := s.End(2, now)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	res, err := s.End(1, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, res.Exercises, 1)
}

func TestEnsureExerciseKeepsOrderWithoutSets(t *testing.T) {
	s := NewSessions()
	s.EnsureExercise(3, "Станова тяга")
	s.EnsureExercise(3, "Планка")
	s.EnsureExercise(3, "Станова тяга")

	assert.Equal(t, []string{"Станова тяга", "Планка"}, s.ExerciseNames(3))
}
