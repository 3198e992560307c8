package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmarchenko2/GymBot/internal/history"
)

func TestSummarizeTrainingKeepsInsertionOrder(t *testing.T) {
	rec := history.TrainingRecord{
		Exercises: map[string][]int{
			"Присідання": {10, 12, 8},
			"Берпі":      {15},
		},
		Order: []string{"Берпі", "Присідання"},
	}

	got := SummarizeTraining(rec)
	require.Len(t, got, 2)
	assert.Equal(t, ExerciseSummary{Name: "Берпі", Sets: 1, TotalReps: 15}, got[0])
	assert.Equal(t, ExerciseSummary{Name: "Присідання", Sets: 3, TotalReps: 30}, got[1])
}

func TestSummarizeTrainingFallsBackToSortedNames(t *testing.T) {
	rec := history.TrainingRecord{
		Exercises: map[string][]int{
			"б": {1},
			"а": {2},
		},
	}

	got := SummarizeTraining(rec)
	require.Len(t, got, 2)
	assert.Equal(t, "а", got[0].Name)
	assert.Equal(t, "б", got[1].Name)
}

func TestSummarizeTrainingSkipsUnknownOrderEntries(t *testing.T) {
	rec := history.TrainingRecord{
		Exercises: map[string][]int{"Планка": {3}},
		Order:     []string{"Планка", "Зникла"},
	}

	got := SummarizeTraining(rec)
	require.Len(t, got, 1)
	assert.Equal(t, "Планка", got[0].Name)
}

func TestGroupMealsByDaySortsBeforeGrouping(t *testing.T) {
	meals := []history.MealRecord{
		{Name: "Обід", Date: "2024-01-02T08:00:00"},
		{Name: "Сніданок", Date: "2024-01-01T09:00:00"},
		{Name: "Вечеря", Date: "2024-01-02T20:00:00"},
	}

	groups := GroupMealsByDay(meals)
	require.Len(t, groups, 2)

	assert.Equal(t, "2024-01-01", groups[0].Day)
	require.Len(t, groups[0].Meals, 1)
	assert.Equal(t, "Сніданок", groups[0].Meals[0].Name)

	assert.Equal(t, "2024-01-02", groups[1].Day)
	require.Len(t, groups[1].Meals, 2)
	assert.Equal(t, "Обід", groups[1].Meals[0].Name)
	assert.Equal(t, "Вечеря", groups[1].Meals[1].Name)
}

func TestGroupMealsByDayEmpty(t *testing.T) {
	assert.Nil(t, GroupMealsByDay(nil))
}

func TestGroupMealsByDayStableWithinSameTimestamp(t *testing.T) {
	meals := []history.MealRecord{
		{Name: "Перша", Date: "2024-05-05T12:00:00"},
		{Name: "Друга", Date: "2024-05-05T12:00:00"},
	}

	groups := GroupMealsByDay(meals)
	require.Len(t, groups, 1)
	assert.Equal(t, "Перша", groups[0].Meals[0].Name)
	assert.Equal(t, "Друга", groups[0].Meals[1].Name)
}
