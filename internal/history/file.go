package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"log/slog"

	"github.com/romanmarchenko2/GymBot/internal/logger"
)

// snapshot is the on-disk image of all histories. User IDs are JSON object
// keys and therefore strings.
type snapshot struct {
	Trainings map[string][]TrainingRecord `json:"trainings"`
	Meals     map[string][]MealRecord     `json:"meals"`
}

func emptySnapshot() snapshot {
	return snapshot{
		Trainings: make(map[string][]TrainingRecord),
		Meals:     make(map[string][]MealRecord),
	}
}

// FileStore persists histories as a single JSON snapshot, rewritten in full
// after every mutation. A missing file on load is treated as empty history.
type FileStore struct {
	mu   sync.Mutex
	path string
	data snapshot
}

// NewFileStore loads the snapshot at path, degrading to an empty history
// when the file does not exist or cannot be parsed.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: emptySnapshot()}
	if err := s.load(); err != nil {
		logger.Warn(context.Background(), "store", "snapshot.load",
			slog.String("status", "fail"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	if snap.Trainings == nil {
		snap.Trainings = make(map[string][]TrainingRecord)
	}
	if snap.Meals == nil {
		snap.Meals = make(map[string][]MealRecord)
	}
	s.data = snap
	return nil
}

// persist rewrites the whole snapshot atomically via a temp file and rename.
// Must be called with the mutex held.
func (s *FileStore) persist() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	return nil
}

func userKey(user int64) string {
	return strconv.FormatInt(user, 10)
}

// AppendTraining appends the record and rewrites the snapshot.
func (s *FileStore) AppendTraining(ctx context.Context, user int64, rec TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userKey(user)
	s.data.Trainings[key] = append(s.data.Trainings[key], rec)
	return s.persistLogged(ctx)
}

// AppendMeal appends the record and rewrites the snapshot.
func (s *FileStore) AppendMeal(ctx context.Context, user int64, rec MealRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userKey(user)
	s.data.Meals[key] = append(s.data.Meals[key], rec)
	return s.persistLogged(ctx)
}

func (s *FileStore) persistLogged(ctx context.Context) error {
	if err := s.persist(); err != nil {
		logger.Error(ctx, "store", "snapshot.persist",
			slog.String("status", "fail"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

// Trainings returns the user's completed trainings in append order.
func (s *FileStore) Trainings(_ context.Context, user int64) ([]TrainingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.data.Trainings[userKey(user)]
	return append([]TrainingRecord(nil), recs...), nil
}

// Meals returns the user's logged meals in append order.
func (s *FileStore) Meals(_ context.Context, user int64) ([]MealRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.data.Meals[userKey(user)]
	return append([]MealRecord(nil), recs...), nil
}
