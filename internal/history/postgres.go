package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore keeps histories in postgres. Rows are append-only; ordering
// is preserved by the serial primary key.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open sqlx connection.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type trainingRow struct {
	Date      string `db:"date"`
	Duration  int    `db:"duration_seconds"`
	Exercises []byte `db:"exercises"`
	Order     []string
}

// AppendTraining inserts a completed training.
func (s *PostgresStore) AppendTraining(ctx context.Context, user int64, rec TrainingRecord) error {
	exercises, err := json.Marshal(rec.Exercises)
	if err != nil {
		return fmt.Errorf("history: marshal exercises: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trainings (user_id, date, duration_seconds, exercises, exercise_order)
		 VALUES ($1, $2, $3, $4, $5)`,
		user, rec.Date, rec.Duration, exercises, pq.Array(rec.Order),
	)
	if err != nil {
		return fmt.Errorf("history: insert training: %w", err)
	}
	return nil
}

// AppendMeal inserts a logged meal.
func (s *PostgresStore) AppendMeal(ctx context.Context, user int64, rec MealRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meals (user_id, name, date) VALUES ($1, $2, $3)`,
		user, rec.Name, rec.Date,
	)
	if err != nil {
		return fmt.Errorf("history: insert meal: %w", err)
	}
	return nil
}

// Trainings returns the user's completed trainings in append order.
func (s *PostgresStore) Trainings(ctx context.Context, user int64) ([]TrainingRecord, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT date, duration_seconds, exercises, exercise_order
		 FROM trainings WHERE user_id = $1 ORDER BY id`,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("history: select trainings: %w", err)
	}
	defer rows.Close()

	var out []TrainingRecord
	for rows.Next() {
		var (
			row   trainingRow
			order pq.StringArray
		)
		if err := rows.Scan(&row.Date, &row.Duration, &row.Exercises, &order); err != nil {
			return nil, fmt.Errorf("history: scan training: %w", err)
		}
		rec := TrainingRecord{
			Date:     row.Date,
			Duration: row.Duration,
			Order:    []string(order),
		}
		if err := json.Unmarshal(row.Exercises, &rec.Exercises); err != nil {
			return nil, fmt.Errorf("history: unmarshal exercises: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Meals returns the user's logged meals in append order.
func (s *PostgresStore) Meals(ctx context.Context, user int64) ([]MealRecord, error) {
	var out []MealRecord
	err := s.db.SelectContext(ctx, &out,
		`SELECT name, date FROM meals WHERE user_id = $1 ORDER BY id`,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("history: select meals: %w", err)
	}
	return out, nil
}
