// Package gymbot wires the fitness bot application: storage, conversation
// machine, and the Telegram command surface.
package gymbot

import (
	"fmt"
	"strings"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/romanmarchenko2/GymBot/internal/config"
	"github.com/romanmarchenko2/GymBot/internal/conversation"
	"github.com/romanmarchenko2/GymBot/internal/database"
	"github.com/romanmarchenko2/GymBot/internal/history"
	"github.com/romanmarchenko2/GymBot/internal/logger"
	"github.com/romanmarchenko2/GymBot/internal/telegram"
	"github.com/romanmarchenko2/GymBot/internal/workout"
)

// App aggregates the application services behind the Telegram surface.
type App struct {
	cfg     *config.Config
	machine *conversation.Machine
	store   history.Store

	closers []func() error
}

// New builds the application: selects the history store and conversation
// state backend from configuration and assembles the machine.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gymbot: nil config provided")
	}

	app := &App{cfg: cfg}

	store, err := buildStore(cfg, app)
	if err != nil {
		return nil, err
	}
	app.store = store

	states := buildStateManager(cfg, app)

	sessions := workout.NewSessions()
	catalog := workout.NewCatalog(sessions)
	app.machine = conversation.NewMachine(sessions, catalog, store, states)

	return app, nil
}

// Machine exposes the conversation machine, mainly for tests.
func (a *App) Machine() *conversation.Machine {
	return a.machine
}

// Close releases resources acquired during New in reverse order.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// TelegramRunOptions assembles the bot runtime configuration.
func (a *App) TelegramRunOptions() (telegram.RunOptions, error) {
	reg, err := a.buildRegistry()
	if err != nil {
		return telegram.RunOptions{}, err
	}

	return telegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: a.buildMiddlewares(),
		Routes:      a.buildRoutes(reg),
	}, nil
}

func buildStore(cfg *config.Config, app *App) (history.Store, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("gymbot: storage init failed: %w", err)
		}
		if err := database.RunMigrations(cfg.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("gymbot: migrations failed: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		return history.NewPostgresStore(db), nil
	default:
		store, err := history.NewFileStore(cfg.Storage.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("gymbot: snapshot load failed: %w", err)
		}
		logger.Store.Info("snapshot store ready",
			slog.String("event", "store.open"),
			slog.String("driver", config.StorageFile),
			slog.String("path", cfg.Storage.SnapshotPath),
		)
		return store, nil
	}
}

func buildStateManager(cfg *config.Config, app *App) conversation.Manager {
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return conversation.NewMemoryManager()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	app.closers = append(app.closers, client.Close)
	logger.FSM.Info("redis state backend",
		slog.String("event", "fsm.backend"),
		slog.String("addr", cfg.Redis.Addr),
		slog.Int("db", cfg.Redis.DB),
	)
	return conversation.NewRedisManager(client)
}
