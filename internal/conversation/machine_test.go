package conversation

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmarchenko2/GymBot/internal/history"
	"github.com/romanmarchenko2/GymBot/internal/workout"
)

func newTestMachine(t *testing.T) (*Machine, history.Store, Manager) {
	t.Helper()
	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "user_data.json"))
	require.NoError(t, err)

	sessions := workout.NewSessions()
	states := NewMemoryManager()
	m := NewMachine(sessions, workout.NewCatalog(sessions), store, states)
	m.SetClock(func() time.Time {
		return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	})
	return m, store, states
}

func TestFullTrainingFlow(t *testing.T) {
	m, store, _ := newTestMachine(t)
	ctx := context.Background()
	const user int64 = 42

	reply := m.HandleCommand(ctx, user, CmdStartTraining)
	assert.Contains(t, reply.Text, "Тренування розпочато")
	// baseline exercises plus the add-new button, one per row
	require.Len(t, reply.Keyboard, len(workout.BaselineExercises)+1)
	lastRow := reply.Keyboard[len(reply.Keyboard)-1]
	assert.Equal(t, TokenAddExercise, lastRow[0].Token)

	// add a new exercise by name
	reply = m.HandleChoice(ctx, user, TokenAddExercise)
	assert.Equal(t, "Введіть назву нової вправи:", reply.Text)
	assert.True(t, m.InProgress(user))

	reply = m.HandleText(ctx, user, "Жим гантелей")
	assert.Contains(t, reply.Text, "Жим гантелей")
	require.Len(t, reply.Keyboard, 2)
	assert.Len(t, reply.Keyboard[0], len(FixedRepChoices))

	// pick a fixed rep count
	reply = m.HandleChoice(ctx, user, "reps|10|Жим гантелей")
	assert.Contains(t, reply.Text, "Додано 10 повторень до вправи 'Жим гантелей'")
	assert.False(t, m.InProgress(user))

	// the new exercise now shows in the menu
	reply = m.HandleCommand(ctx, user, CmdChooseExercise)
	var labels []string
	for _, row := range reply.Keyboard {
		labels = append(labels, row[0].Label)
	}
	assert.Contains(t, labels, "Жим гантелей")

	reply = m.HandleCommand(ctx, user, CmdEndTraining)
	assert.Contains(t, reply.Text, "Тренування закінчено")
	assert.Contains(t, reply.Text, "Жим гантелей: 1 підходів, 10 повторень")

	records, err := store.Trainings(ctx, user)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []int{10}, records[0].Exercises["Жим гантелей"])
	assert.Equal(t, []string{"Жим гантелей"}, records[0].Order)
}

func TestEndTrainingWithoutStart(t *testing.T) {
	m, store, _ := newTestMachine(t)
	ctx := context.Background()

	reply := m.HandleCommand(ctx, 1, CmdEndTraining)
	assert.Equal(t, "Ви ще не починали тренування.", reply.Text)

	records, err := store.Trainings(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRestartDiscardsPreviousSets(t *testing.T) {
	m, _, _ := newTestMachine(t)
	ctx := context.Background()
	const user int64 = 3

	m.HandleCommand(ctx, user, CmdStartTraining)
	m.HandleChoice(ctx, user, ExerciseToken("Присідання"))
	m.HandleChoice(ctx, user, "reps|15|Присідання")

	reply := m.HandleCommand(ctx, user, CmdStartTraining)
	assert.Contains(t, reply.Text, "підходів втрачено: 1")

	reply = m.HandleCommand(ctx, user, CmdEndTraining)
	assert.NotContains(t, reply.Text, "Присідання:")
}

func TestCustomRepsFlow(t *testing.T) {
	m, _, states := newTestMachine(t)
	ctx := context.Background()
	const user int64 = 5

	m.HandleCommand(ctx, user, CmdStartTraining)

	reply := m.HandleChoice(ctx, user, ExerciseToken("Берпі"))
	assert.Contains(t, reply.Text, "Берпі")
	assert.Equal(t, StateAwaitingReps, states.Get(user).State)

	reply = m.HandleChoice(ctx, user, RepsToken(RepsCustom, "Берпі"))
	assert.Contains(t, reply.Text, "Введіть кількість повторень")
	assert.Equal(t, StateAwaitingCustomReps, states.Get(user).State)
	assert.Equal(t, "Берпі", states.Get(user).CurrentExercise)

	// invalid input re-prompts and keeps the flow open
	for _, bad := range []string{"abc", "-5", "0", ""} {
		reply = m.HandleText(ctx, user, bad)
		assert.Equal(t, "Будь ласка, введіть коректне число повторень.", reply.Text, bad)
		assert.Equal(t, StateAwaitingCustomReps, states.Get(user).State)
	}

	reply = m.HandleText(ctx, user, " 25 ")
	assert.Contains(t, reply.Text, "Додано 25 повторень до вправи 'Берпі'")
	assert.False(t, m.InProgress(user))

	reply = m.HandleCommand(ctx, user, CmdEndTraining)
	assert.Contains(t, reply.Text, "Берпі: 1 підходів, 25 повторень")
}

func TestMealFlow(t *testing.T) {
	m, store, _ := newTestMachine(t)
	ctx := context.Background()
	const user int64 = 9

	reply := m.HandleCommand(ctx, user, CmdViewMeals)
	assert.Equal(t, "У вас ще немає збережених страв.", reply.Text)

	reply = m.HandleCommand(ctx, user, CmdAddMeal)
	assert.Equal(t, "Введіть назву страви, яку ви з'їли:", reply.Text)
	assert.True(t, m.InProgress(user))

	reply = m.HandleText(ctx, user, "Борщ")
	assert.Equal(t, "Страву 'Борщ' додано до вашого списку.", reply.Text)
	assert.False(t, m.InProgress(user))

	meals, err := store.Meals(ctx, user)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Борщ", meals[0].Name)
	assert.Equal(t, "2026-03-01T10:00:00", meals[0].Date)

	reply = m.HandleCommand(ctx, user, CmdViewMeals)
	assert.Contains(t, reply.Text, "День: 01.03.2026")
	assert.Contains(t, reply.Text, "Борщ - Час: 10:00")
}

func TestViewStats(t *testing.T) {
	m, store, _ := newTestMachine(t)
	ctx := context.Background()
	const user int64 = 11

	reply := m.HandleCommand(ctx, user, CmdViewStats)
	assert.Equal(t, "У вас ще немає збереженої статистики тренувань.", reply.Text)

	rec := history.TrainingRecord{
		Date:      "2026-02-28T18:30:00",
		Duration:  1800,
		Exercises: map[string][]int{"Планка": {60, 45}},
		Order:     []string{"Планка"},
	}
	require.NoError(t, store.AppendTraining(ctx, user, rec))

	reply = m.HandleCommand(ctx, user, CmdViewStats)
	assert.Contains(t, reply.Text, "Дата та час: 28.02.2026 18:30:00")
	assert.Contains(t, reply.Text, "Тривалість: 30 хвилин")
	assert.Contains(t, reply.Text, "Планка: 2 підходів, 105 повторень")
}

func TestStatsAreIsolatedPerUser(t *testing.T) {
	m, store, _ := newTestMachine(t)
	ctx := context.Background()

	require.NoError(t, store.AppendMeal(ctx, 1, history.MealRecord{Name: "Салат", Date: "2026-03-01T12:00:00"}))

	reply := m.HandleCommand(ctx, 2, CmdViewMeals)
	assert.Equal(t, "У вас ще немає збережених страв.", reply.Text)
}

func TestIdleTextIsIgnored(t *testing.T) {
	m, _, _ := newTestMachine(t)

	reply := m.HandleText(context.Background(), 1, "просто текст")
	assert.True(t, reply.Empty())
}

func TestHandleDispatchesByKind(t *testing.T) {
	m, _, _ := newTestMachine(t)
	ctx := context.Background()

	reply := m.Handle(ctx, Event{Kind: EventCommand, User: 1, Payload: CmdStartTraining})
	assert.True(t, strings.HasPrefix(reply.Text, "Тренування розпочато"))

	reply = m.Handle(ctx, Event{Kind: EventChoice, User: 1, Payload: ExerciseToken("Випади")})
	assert.Contains(t, reply.Text, "Випади")

	// typed text while a button press is expected is dropped
	reply = m.Handle(ctx, Event{Kind: EventText, User: 1, Payload: "щось"})
	assert.True(t, reply.Empty())
}
