// Package conversation models multi-step Telegram flows as an explicit
// per-user finite state machine. Transitions happen only in response to
// inbound events; the machine never talks to the transport directly.
package conversation

// State identifies the current step of a user's multi-turn flow.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingExerciseName waits for the name of a new exercise.
	StateAwaitingExerciseName State = "awaiting_exercise_name"
	// StateAwaitingReps waits for a rep-count button press for the pinned exercise.
	StateAwaitingReps State = "awaiting_reps"
	// StateAwaitingCustomReps waits for a typed rep count for the pinned exercise.
	StateAwaitingCustomReps State = "awaiting_custom_reps"
	// StateAwaitingMealName waits for the name of a meal to log.
	StateAwaitingMealName State = "awaiting_meal_name"
)

// Session is a user's conversation position. CurrentExercise is the exercise
// pinned by the naming/selection step and consumed by the reps step; it lives
// on the session value so transitions stay pure.
type Session struct {
	State           State  `json:"state"`
	CurrentExercise string `json:"current_exercise,omitempty"`
}

// Idle reports whether the session has no flow in progress.
func (s Session) Idle() bool {
	return s.State == "" || s.State == StateIdle
}

// Manager stores conversation sessions keyed by user ID. Implementations
// must isolate users from each other; events for a single user are expected
// to arrive sequentially.
type Manager interface {
	Get(userID int64) Session
	Set(userID int64, s Session)
	Clear(userID int64)
	InProgress(userID int64) bool
}
