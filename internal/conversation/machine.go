package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/romanmarchenko2/GymBot/internal/history"
	"github.com/romanmarchenko2/GymBot/internal/logger"
	"github.com/romanmarchenko2/GymBot/internal/stats"
	"github.com/romanmarchenko2/GymBot/internal/workout"
)

// Commands understood by the machine.
const (
	CmdStartTraining  = "start_training"
	CmdEndTraining    = "end_training"
	CmdChooseExercise = "choose_exercise"
	CmdAddExercise    = "add_exercise"
	CmdViewStats      = "view_stats"
	CmdAddMeal        = "add_meal"
	CmdViewMeals      = "view_meals"
)

// Choice token keys. A token is "<key>" or "<key>|<payload>"; the reps
// payload is "<count>|<exercise>" with "custom" in place of a count for
// free-form entry.
const (
	TokenAddExercise = "add_exercise"
	TokenExercise    = "exercise"
	TokenReps        = "reps"
	RepsCustom       = "custom"
)

// FixedRepChoices are the rep counts offered as one-tap buttons.
var FixedRepChoices = []int{5, 10, 15, 20}

// ExerciseToken encodes an exercise selection.
func ExerciseToken(name string) string {
	return TokenExercise + "|" + name
}

// RepsToken encodes a rep-count selection for an exercise.
func RepsToken(count, exercise string) string {
	return TokenReps + "|" + count + "|" + exercise
}

// EventKind tags an inbound event with its transport shape.
type EventKind int

const (
	// EventCommand is a zero-argument slash command.
	EventCommand EventKind = iota
	// EventChoice is a button press carrying a choice token.
	EventChoice
	// EventText is free-form text typed during a flow.
	EventText
)

// Event is a normalized inbound event; handlers never branch on the
// transport type, only on Kind.
type Event struct {
	Kind    EventKind
	User    int64
	Payload string
}

// Choice is one selectable option presented to the user.
type Choice struct {
	Label string
	Token string
}

// Reply is the outbound payload handed back to the messaging gateway:
// a message plus an optional keyboard of choice rows.
type Reply struct {
	Text     string
	Keyboard [][]Choice
}

// Empty reports whether there is nothing to send.
func (r Reply) Empty() bool {
	return r.Text == "" && len(r.Keyboard) == 0
}

// Machine routes inbound events through per-user conversation state,
// mutating the workout session and history stores and producing replies.
type Machine struct {
	sessions *workout.Sessions
	catalog  *workout.Catalog
	store    history.Store
	states   Manager
	now      func() time.Time
}

// NewMachine wires a machine over its collaborating stores.
func NewMachine(sessions *workout.Sessions, catalog *workout.Catalog, store history.Store, states Manager) *Machine {
	return &Machine{
		sessions: sessions,
		catalog:  catalog,
		store:    store,
		states:   states,
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (m *Machine) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// InProgress reports whether the user has a flow awaiting input.
func (m *Machine) InProgress(user int64) bool {
	return m.states.InProgress(user)
}

// Handle dispatches a normalized event to the matching handler.
func (m *Machine) Handle(ctx context.Context, ev Event) Reply {
	switch ev.Kind {
	case EventCommand:
		return m.HandleCommand(ctx, ev.User, ev.Payload)
	case EventChoice:
		return m.HandleChoice(ctx, ev.User, ev.Payload)
	case EventText:
		return m.HandleText(ctx, ev.User, ev.Payload)
	}
	return Reply{}
}

// HandleCommand processes a zero-argument command.
func (m *Machine) HandleCommand(ctx context.Context, user int64, name string) Reply {
	switch name {
	case CmdStartTraining:
		return m.startTraining(ctx, user)
	case CmdEndTraining:
		return m.endTraining(ctx, user)
	case CmdChooseExercise:
		return m.exerciseMenu(user, msgChooseExercise)
	case CmdAddExercise:
		m.transition(ctx, user, Session{State: StateAwaitingExerciseName})
		return Reply{Text: msgNewExerciseName}
	case CmdViewStats:
		return m.viewStats(ctx, user)
	case CmdAddMeal:
		m.transition(ctx, user, Session{State: StateAwaitingMealName})
		return Reply{Text: msgNewMealName}
	case CmdViewMeals:
		return m.viewMeals(ctx, user)
	}
	return Reply{}
}

// HandleChoice processes a button press. The token is either a bare key or
// "<key>|<payload>".
func (m *Machine) HandleChoice(ctx context.Context, user int64, token string) Reply {
	key, payload := splitToken(token)
	switch key {
	case TokenAddExercise:
		m.transition(ctx, user, Session{State: StateAwaitingExerciseName})
		return Reply{Text: msgNewExerciseName}
	case TokenExercise:
		if payload == "" {
			return Reply{}
		}
		// Selecting an existing exercise pins it and jumps straight to reps.
		m.transition(ctx, user, Session{State: StateAwaitingReps, CurrentExercise: payload})
		return repsMenu(payload)
	case TokenReps:
		return m.repsChoice(ctx, user, payload)
	}
	return Reply{}
}

// HandleText processes free text while a flow is in progress.
func (m *Machine) HandleText(ctx context.Context, user int64, text string) Reply {
	sess := m.states.Get(user)
	switch sess.State {
	case StateAwaitingExerciseName:
		name := strings.TrimSpace(text)
		if name == "" {
			return Reply{Text: msgNewExerciseName}
		}
		m.sessions.EnsureExercise(user, name)
		m.transition(ctx, user, Session{State: StateAwaitingReps, CurrentExercise: name})
		return repsMenu(name)
	case StateAwaitingCustomReps:
		reps, err := parseReps(text)
		if err != nil {
			// Re-prompt and stay; the session store is untouched.
			return Reply{Text: msgInvalidReps}
		}
		return m.addReps(ctx, user, sess.CurrentExercise, reps)
	case StateAwaitingMealName:
		return m.addMeal(ctx, user, strings.TrimSpace(text))
	}
	return Reply{}
}

func (m *Machine) startTraining(ctx context.Context, user int64) Reply {
	now := m.now()
	discarded := m.sessions.Start(user, now)
	logger.Info(ctx, "fsm", "training.start",
		slog.Int64("user_id", user),
		slog.Int("discarded_sets", discarded),
	)
	text := fmt.Sprintf(msgTrainingStarted, now.Format(displayTimeLayout))
	if discarded > 0 {
		text += "\n" + fmt.Sprintf(msgPreviousDiscarded, discarded)
	}
	menu := m.exerciseMenu(user, msgChooseExercise)
	return Reply{Text: text + "\n\n" + menu.Text, Keyboard: menu.Keyboard}
}

func (m *Machine) endTraining(ctx context.Context, user int64) Reply {
	res, err := m.sessions.End(user, m.now())
	if err != nil {
		return Reply{Text: msgNoActiveTraining}
	}

	rec := history.TrainingRecord{
		Date:      history.FormatDate(res.EndedAt),
		Duration:  int(res.Duration.Seconds()),
		Exercises: res.Exercises,
		Order:     res.Order,
	}
	if err := m.store.AppendTraining(ctx, user, rec); err != nil {
		// Losing one record is preferable to failing the whole session end.
		logger.Error(ctx, "fsm", "training.append",
			slog.Int64("user_id", user),
			slog.String("err", err.Error()),
		)
	}
	m.states.Clear(user)

	var b strings.Builder
	fmt.Fprintf(&b, msgTrainingEnded, res.EndedAt.Format(displayTimeLayout), rec.Duration/60)
	for _, s := range stats.SummarizeTraining(rec) {
		fmt.Fprintf(&b, "\n%s: %d підходів, %d повторень", s.Name, s.Sets, s.TotalReps)
	}
	logger.Info(ctx, "fsm", "training.end",
		slog.Int64("user_id", user),
		slog.Int("duration_seconds", rec.Duration),
		slog.Int("exercises", len(rec.Exercises)),
	)
	return Reply{Text: b.String()}
}

func (m *Machine) repsChoice(ctx context.Context, user int64, payload string) Reply {
	count, exercise := splitToken(payload)
	if exercise == "" {
		return Reply{}
	}
	if count == RepsCustom {
		m.transition(ctx, user, Session{State: StateAwaitingCustomReps, CurrentExercise: exercise})
		return Reply{Text: fmt.Sprintf(msgCustomReps, exercise)}
	}
	reps, err := strconv.Atoi(count)
	if err != nil || reps <= 0 {
		return Reply{Text: msgInvalidReps}
	}
	return m.addReps(ctx, user, exercise, reps)
}

func (m *Machine) addReps(ctx context.Context, user int64, exercise string, reps int) Reply {
	if exercise == "" {
		m.states.Clear(user)
		return m.exerciseMenu(user, msgChooseExercise)
	}
	m.sessions.RecordSet(user, exercise, reps)
	m.states.Clear(user)
	logger.Debug(ctx, "fsm", "set.recorded",
		slog.Int64("user_id", user),
		slog.String("exercise", exercise),
		slog.Int("reps", reps),
	)
	menu := m.exerciseMenu(user, msgChooseExercise)
	text := fmt.Sprintf(msgRepsAdded, reps, exercise)
	return Reply{Text: text + "\n\n" + menu.Text, Keyboard: menu.Keyboard}
}

func (m *Machine) addMeal(ctx context.Context, user int64, name string) Reply {
	if name == "" {
		return Reply{Text: msgNewMealName}
	}
	rec := history.MealRecord{Name: name, Date: history.FormatDate(m.now())}
	if err := m.store.AppendMeal(ctx, user, rec); err != nil {
		logger.Error(ctx, "fsm", "meal.append",
			slog.Int64("user_id", user),
			slog.String("err", err.Error()),
		)
	}
	m.states.Clear(user)
	return Reply{Text: fmt.Sprintf(msgMealAdded, name)}
}

func (m *Machine) viewStats(ctx context.Context, user int64) Reply {
	records, err := m.store.Trainings(ctx, user)
	if err != nil {
		logger.Error(ctx, "fsm", "stats.load",
			slog.Int64("user_id", user),
			slog.String("err", err.Error()),
		)
	}
	if len(records) == 0 {
		return Reply{Text: msgNoStats}
	}
	var b strings.Builder
	b.WriteString(msgStatsHeader)
	for _, rec := range records {
		if t, ok := history.ParseDate(rec.Date); ok {
			fmt.Fprintf(&b, "Дата та час: %s\n", t.Format(displayTimeLayout))
		} else {
			fmt.Fprintf(&b, "Дата та час: %s\n", rec.Date)
		}
		fmt.Fprintf(&b, "Тривалість: %d хвилин\n", rec.Duration/60)
		b.WriteString("Вправи:\n")
		for _, s := range stats.SummarizeTraining(rec) {
			fmt.Fprintf(&b, "  %s: %d підходів, %d повторень\n", s.Name, s.Sets, s.TotalReps)
		}
		b.WriteString("\n")
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

func (m *Machine) viewMeals(ctx context.Context, user int64) Reply {
	meals, err := m.store.Meals(ctx, user)
	if err != nil {
		logger.Error(ctx, "fsm", "meals.load",
			slog.Int64("user_id", user),
			slog.String("err", err.Error()),
		)
	}
	if len(meals) == 0 {
		return Reply{Text: msgNoMeals}
	}
	var b strings.Builder
	b.WriteString(msgMealsHeader)
	for _, day := range stats.GroupMealsByDay(meals) {
		if t, ok := history.ParseDate(day.Day); ok {
			fmt.Fprintf(&b, "День: %s\n", t.Format("02.01.2006"))
		} else {
			fmt.Fprintf(&b, "День: %s\n", day.Day)
		}
		for _, meal := range day.Meals {
			clock := ""
			if t, ok := history.ParseDate(meal.Date); ok {
				clock = t.Format("15:04")
			}
			fmt.Fprintf(&b, "   %s - Час: %s\n", meal.Name, clock)
		}
		b.WriteString("\n")
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

// exerciseMenu builds the exercise keyboard: the merged catalog plus the
// add-new button, one button per row like the original layout.
func (m *Machine) exerciseMenu(user int64, prompt string) Reply {
	names := m.catalog.ListFor(user)
	rows := make([][]Choice, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, []Choice{{Label: name, Token: ExerciseToken(name)}})
	}
	rows = append(rows, []Choice{{Label: msgAddExerciseButton, Token: TokenAddExercise}})
	return Reply{Text: prompt, Keyboard: rows}
}

// repsMenu offers the fixed rep counts on one row and custom entry below.
func repsMenu(exercise string) Reply {
	fixed := make([]Choice, 0, len(FixedRepChoices))
	for _, n := range FixedRepChoices {
		v := strconv.Itoa(n)
		fixed = append(fixed, Choice{Label: v, Token: RepsToken(v, exercise)})
	}
	return Reply{
		Text: fmt.Sprintf(msgChooseReps, exercise),
		Keyboard: [][]Choice{
			fixed,
			{{Label: msgCustomRepsButton, Token: RepsToken(RepsCustom, exercise)}},
		},
	}
}

func (m *Machine) transition(ctx context.Context, user int64, next Session) {
	m.states.Set(user, next)
	logger.Debug(ctx, "fsm", "state.transition",
		slog.Int64("user_id", user),
		slog.String("state", string(next.State)),
		slog.String("exercise", next.CurrentExercise),
	)
}

func splitToken(token string) (string, string) {
	parts := strings.SplitN(token, "|", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

func parseReps(text string) (int, error) {
	reps, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrInvalidReps
	}
	if reps <= 0 {
		return 0, ErrInvalidReps
	}
	return reps, nil
}
