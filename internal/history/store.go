package history

import (
	"context"
	"errors"
)

// ErrSnapshotUnavailable wraps snapshot read/write failures. Loading degrades
// to an empty history; saving is reported to the operational log by callers
// and never crashes a handler.
var ErrSnapshotUnavailable = errors.New("history: snapshot unavailable")

// Store keeps per-user append-only training and meal histories.
type Store interface {
	AppendTraining(ctx context.Context, user int64, rec TrainingRecord) error
	AppendMeal(ctx context.Context, user int64, rec MealRecord) error
	Trainings(ctx context.Context, user int64) ([]TrainingRecord, error)
	Meals(ctx context.Context, user int64) ([]MealRecord, error)
}
