package history

import "time"

// DateLayout is the timestamp format written into records. It matches the
// ISO-8601 local timestamps found in existing snapshot files.
const DateLayout = "2006-01-02T15:04:05"

var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateLayout,
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

// ParseDate parses a record timestamp in any of the accepted ISO-8601 shapes.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a timestamp the way records store it.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TrainingRecord is an immutable completed training. Exercises map each
// exercise name to reps per set in set order; Order preserves the
// cross-exercise insertion order across snapshot round trips.
type TrainingRecord struct {
	Date      string           `json:"date" db:"date"`
	Duration  int              `json:"duration" db:"duration_seconds"`
	Exercises map[string][]int `json:"exercises"`
	Order     []string         `json:"order,omitempty"`
}

// MealRecord is an immutable logged meal.
type MealRecord struct {
	Name string `json:"name" db:"name"`
	Date string `json:"date" db:"date"`
}
