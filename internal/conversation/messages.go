package conversation

import "errors"

// ErrInvalidReps marks custom rep input that does not parse as a positive integer.
var ErrInvalidReps = errors.New("conversation: invalid rep count")

const displayTimeLayout = "02.01.2006 15:04:05"

// User-facing strings.
const (
	msgTrainingStarted   = "Тренування розпочато!\nДата та час початку: %s"
	msgPreviousDiscarded = "Попереднє незавершене тренування скинуто, підходів втрачено: %d."
	msgTrainingEnded     = "Тренування закінчено!\nДата та час закінчення: %s\nТривалість: %d хвилин\n\nСтатистика вправ:"
	msgNoActiveTraining  = "Ви ще не починали тренування."
	msgChooseExercise    = "Виберіть вправу або додайте нову:"
	msgAddExerciseButton = "Додати нову вправу"
	msgNewExerciseName   = "Введіть назву нової вправи:"
	msgChooseReps        = "Виберіть кількість повторень для вправи '%s':"
	msgCustomRepsButton  = "Ввести іншу кількість"
	msgCustomReps        = "Введіть кількість повторень для вправи '%s':"
	msgRepsAdded         = "Додано %d повторень до вправи '%s'."
	msgInvalidReps       = "Будь ласка, введіть коректне число повторень."
	msgNoStats           = "У вас ще немає збереженої статистики тренувань."
	msgStatsHeader       = "Загальна статистика тренувань:\n\n"
	msgNewMealName       = "Введіть назву страви, яку ви з'їли:"
	msgMealAdded         = "Страву '%s' додано до вашого списку."
	msgNoMeals           = "У вас ще немає збережених страв."
	msgMealsHeader       = "Ваші страви:\n\n"
)
