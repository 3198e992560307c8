// Package stats computes read-only aggregations over completed trainings
// and logged meals. Nothing here mutates state.
package stats

import (
	"sort"

	"github.com/romanmarchenko2/GymBot/internal/history"
)

// ExerciseSummary describes one exercise within a finished training.
type ExerciseSummary struct {
	Name      string
	Sets      int
	TotalReps int
}

// SummarizeTraining reports sets and total reps per exercise. Exercises
// appear in the record's insertion order; records restored from storage
// without an order list fall back to sorted names for determinism.
func SummarizeTraining(rec history.TrainingRecord) []ExerciseSummary {
	names := rec.Order
	if len(names) == 0 {
		names = make([]string, 0, len(rec.Exercises))
		for name := range rec.Exercises {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	out := make([]ExerciseSummary, 0, len(names))
	for _, name := range names {
		reps, ok := rec.Exercises[name]
		if !ok {
			continue
		}
		total := 0
		for _, r := range reps {
			total += r
		}
		out = append(out, ExerciseSummary{Name: name, Sets: len(reps), TotalReps: total})
	}
	return out
}

// MealDay groups one calendar day's meals in ascending time order.
type MealDay struct {
	// Day is the calendar date in YYYY-MM-DD form.
	Day   string
	Meals []history.MealRecord
}

// GroupMealsByDay sorts meals ascending by date, then partitions the sorted
// sequence into maximal runs sharing the same calendar date. The sort is what
// makes the contiguous-run partition correct; grouping must not be done
// without it.
func GroupMealsByDay(meals []history.MealRecord) []MealDay {
	if len(meals) == 0 {
		return nil
	}
	sorted := append([]history.MealRecord(nil), meals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, oki := history.ParseDate(sorted[i].Date)
		tj, okj := history.ParseDate(sorted[j].Date)
		if oki && okj {
			return ti.Before(tj)
		}
		// unparsable dates sort by raw string, which matches ISO ordering
		return sorted[i].Date < sorted[j].Date
	})

	var groups []MealDay
	for _, meal := range sorted {
		day := mealDay(meal)
		if len(groups) == 0 || groups[len(groups)-1].Day != day {
			groups = append(groups, MealDay{Day: day})
		}
		last := &groups[len(groups)-1]
		last.Meals = append(last.Meals, meal)
	}
	return groups
}

func mealDay(meal history.MealRecord) string {
	if t, ok := history.ParseDate(meal.Date); ok {
		return t.Format("2006-01-02")
	}
	if len(meal.Date) >= 10 {
		return meal.Date[:10]
	}
	return meal.Date
}
