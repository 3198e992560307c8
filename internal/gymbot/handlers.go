package gymbot

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/romanmarchenko2/GymBot/internal/conversation"
	"github.com/romanmarchenko2/GymBot/internal/telegram"
	"github.com/romanmarchenko2/GymBot/internal/telegram/callbacks"
	tghelpers "github.com/romanmarchenko2/GymBot/internal/telegram/helpers"
	"github.com/romanmarchenko2/GymBot/internal/telegram/keyboard"
	"github.com/romanmarchenko2/GymBot/internal/telegram/middleware"
	"github.com/romanmarchenko2/GymBot/internal/telegram/router"
)

const msgGreeting = "Привіт! Я бот для обліку тренувань та харчування.\n" +
	"Використовуйте меню команд, щоб почати тренування, записати підходи або додати прийом їжі."

const msgRateLimited = "Занадто багато повідомлень. Зачекайте, будь ласка."

func (a *App) buildRegistry() (*telegram.Registry, error) {
	reg := telegram.NewRegistry()

	reg.RegisterCommand("/start", telegram.Command{
		Handler: func(c tele.Context) error {
			return tghelpers.SendText(c, msgGreeting)
		},
		Description: "Почати роботу з ботом",
	})

	commands := []struct {
		name        string
		cmd         string
		description string
	}{
		{"/start_training", conversation.CmdStartTraining, "Почати тренування"},
		{"/end_training", conversation.CmdEndTraining, "Завершити тренування"},
		{"/choose_exercise", conversation.CmdChooseExercise, "Вибрати вправу"},
		{"/view_stats", conversation.CmdViewStats, "Переглянути статистику тренувань"},
		{"/add_meal", conversation.CmdAddMeal, "Додати прийом їжі"},
		{"/view_meals", conversation.CmdViewMeals, "Переглянути записи про їжу"},
	}
	for _, def := range commands {
		reg.RegisterCommand(def.name, telegram.Command{
			Handler:     a.commandHandler(def.cmd),
			Description: def.description,
		})
	}

	for _, key := range []string{
		conversation.TokenExercise,
		conversation.TokenReps,
		conversation.TokenAddExercise,
	} {
		if err := reg.RegisterCallback(key, a.choiceHandler()); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func (a *App) buildMiddlewares() []telegram.Middleware {
	var mws []telegram.Middleware
	if a.cfg.RateLimit.IntervalMS > 0 {
		mws = append(mws, telegram.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(a.cfg.RateLimit.IntervalMS) * time.Millisecond,
				OnLimited: func(c tele.Context) error {
					return tghelpers.SendText(c, msgRateLimited)
				},
			}),
		})
	}
	return mws
}

func (a *App) buildRoutes(reg *telegram.Registry) []telegram.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(a, reg, router.TextOptions{}))
	return routes
}

func (a *App) commandHandler(cmd string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		reply := a.machine.HandleCommand(ctx, c.Sender().ID, cmd)
		return sendReply(c, reply)
	}
}

func (a *App) choiceHandler() tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		reply := a.machine.HandleChoice(ctx, c.Sender().ID, callbacks.Token(c))
		return editReply(c, reply)
	}
}

// InProgress reports whether the sender has a pending conversation prompt.
func (a *App) InProgress(userID int64) bool {
	return a.machine.InProgress(userID)
}

// HandleText feeds free-form text into the conversation machine.
func (a *App) HandleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply := a.machine.HandleText(ctx, c.Sender().ID, c.Text())
	return sendReply(c, reply)
}

func sendReply(c tele.Context, reply conversation.Reply) error {
	if reply.Empty() {
		return nil
	}
	if markup := renderKeyboard(reply); markup != nil {
		return tghelpers.SendText(c, reply.Text, markup)
	}
	return tghelpers.SendText(c, reply.Text)
}

// editReply rewrites the message that carried the pressed keyboard so stale
// menus do not pile up in the chat.
func editReply(c tele.Context, reply conversation.Reply) error {
	if reply.Empty() {
		return nil
	}
	if markup := renderKeyboard(reply); markup != nil {
		return tghelpers.EditOrSendText(c, reply.Text, markup)
	}
	return tghelpers.EditOrSendText(c, reply.Text)
}

// renderKeyboard converts choice rows into an inline keyboard. A choice token
// is "<unique>" or "<unique>|<payload>", matching Telebot's callback encoding.
func renderKeyboard(reply conversation.Reply) *tele.ReplyMarkup {
	if len(reply.Keyboard) == 0 {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, 0, len(reply.Keyboard))
	for _, row := range reply.Keyboard {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, choice := range row {
			unique, data := splitChoiceToken(choice.Token)
			btns = append(btns, keyboard.InlineBtn{
				Text:   choice.Label,
				Unique: unique,
				Data:   data,
			})
		}
		rows = append(rows, btns)
	}
	return keyboard.InlineButtonsRows(rows...)
}

func splitChoiceToken(token string) (string, string) {
	parts := strings.SplitN(token, "|", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return token, ""
}
