package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/romanmarchenko2/GymBot/internal/logger"
)

const (
	sessionKeyPrefix  = "conversation:session:"
	defaultSessionTTL = 24 * time.Hour
	redisOpTimeout    = 2 * time.Second
)

type redisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager constructs a Manager backed by redis, so conversation
// positions survive bot restarts. Storage errors degrade to an idle session
// and are reported to the operational log; the Manager interface stays
// error-free like the in-memory one.
func NewRedisManager(client *redis.Client) Manager {
	return &redisManager{client: client, ttl: defaultSessionTTL}
}

func sessionKey(userID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(userID, 10)
}

// Get returns the stored session or an idle session on miss/error.
func (m *redisManager) Get(userID int64) Session {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := m.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "fsm", "session.get",
				slog.String("status", "fail"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		return Session{State: StateIdle}
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn(ctx, "fsm", "session.decode",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return Session{State: StateIdle}
	}
	return s
}

// Set stores the session with a TTL refresh.
func (m *redisManager) Set(userID int64, s Session) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := json.Marshal(s)
	if err != nil {
		logger.Error(ctx, "fsm", "session.encode",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := m.client.Set(ctx, sessionKey(userID), data, m.ttl).Err(); err != nil {
		logger.Error(ctx, "fsm", "session.set",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

// Clear removes the session.
func (m *redisManager) Clear(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := m.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		logger.Warn(ctx, "fsm", "session.clear",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

// InProgress reports whether a non-idle session is stored.
func (m *redisManager) InProgress(userID int64) bool {
	return !m.Get(userID).Idle()
}
