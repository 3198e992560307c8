package workout

import (
	"errors"
	"sync"
	"time"
)

// ErrNoActiveSession is returned by End when the user never started a training.
var ErrNoActiveSession = errors.New("workout: no active training session")

// Result is the outcome of a finished training session.
type Result struct {
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	// Exercises maps exercise name to reps per set, in set order.
	Exercises map[string][]int
	// Order lists exercise names in first-recorded order.
	Order []string
}

type exerciseLog struct {
	sets  map[string][]int
	order []string
}

func newExerciseLog() *exerciseLog {
	return &exerciseLog{sets: make(map[string][]int)}
}

func (l *exerciseLog) ensure(exercise string) {
	if _, ok := l.sets[exercise]; ok {
		return
	}
	l.sets[exercise] = []int{}
	l.order = append(l.order, exercise)
}

func (l *exerciseLog) setCount() int {
	n := 0
	for _, reps := range l.sets {
		n += len(reps)
	}
	return n
}

// Sessions tracks at most one in-progress training per user. The start time
// and the recorded sets are tracked independently: sets may be recorded
// without an explicit Start, but End requires one.
type Sessions struct {
	mu      sync.RWMutex
	started map[int64]time.Time
	logs    map[int64]*exerciseLog
}

// NewSessions creates an empty in-memory session store.
func NewSessions() *Sessions {
	return &Sessions{
		started: make(map[int64]time.Time),
		logs:    make(map[int64]*exerciseLog),
	}
}

// Start begins a new training for the user. An already running session is
// overwritten in place and its accumulated sets are discarded; the number of
// discarded sets is returned so callers can surface the loss.
func (s *Sessions) Start(user int64, now time.Time) (discarded int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.logs[user]; ok {
		discarded = prev.setCount()
	}
	s.started[user] = now
	s.logs[user] = newExerciseLog()
	return discarded
}

// End finishes the user's training, returning a snapshot of the recorded
// sets and clearing the session. Returns ErrNoActiveSession when the user
// never called Start.
func (s *Sessions) End(user int64, now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	startedAt, ok := s.started[user]
	if !ok {
		return Result{}, ErrNoActiveSession
	}
	res := Result{
		StartedAt: startedAt,
		EndedAt:   now,
		Duration:  now.Sub(startedAt),
		Exercises: make(map[string][]int),
	}
	if log, ok := s.logs[user]; ok {
		res.Order = append([]string(nil), log.order...)
		for name, reps := range log.sets {
			res.Exercises[name] = append([]int(nil), reps...)
		}
	}
	delete(s.started, user)
	delete(s.logs, user)
	return res, nil
}

// RecordSet appends a set of reps for the exercise, creating the exercise
// entry if absent. Recording without an active session is tolerated.
// Validating reps positivity is the caller's responsibility.
func (s *Sessions) RecordSet(user int64, exercise string, reps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.ensureLog(user)
	log.ensure(exercise)
	log.sets[exercise] = append(log.sets[exercise], reps)
}

// EnsureExercise creates an empty entry for the exercise in the user's
// log so it shows up in the catalog before any set is recorded.
func (s *Sessions) EnsureExercise(user int64, exercise string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLog(user).ensure(exercise)
}

func (s *Sessions) ensureLog(user int64) *exerciseLog {
	log, ok := s.logs[user]
	if !ok {
		log = newExerciseLog()
		s.logs[user] = log
	}
	return log
}

// ExerciseNames returns the exercises of the user's current log in
// first-added order, or nil when none were recorded.
func (s *Sessions) ExerciseNames(user int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.logs[user]
	if !ok {
		return nil
	}
	return append([]string(nil), log.order...)
}

// InProgress reports whether the user has started a training.
func (s *Sessions) InProgress(user int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.started[user]
	return ok
}
