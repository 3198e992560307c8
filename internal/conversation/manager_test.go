package conversation

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager(t *testing.T) {
	m := NewMemoryManager()

	assert.True(t, m.Get(1).Idle())
	assert.False(t, m.InProgress(1))

	m.Set(1, Session{State: StateAwaitingReps, CurrentExercise: "Присідання"})
	got := m.Get(1)
	assert.Equal(t, StateAwaitingReps, got.State)
	assert.Equal(t, "Присідання", got.CurrentExercise)
	assert.True(t, m.InProgress(1))
	assert.False(t, m.InProgress(2))

	m.Clear(1)
	assert.True(t, m.Get(1).Idle())
	assert.False(t, m.InProgress(1))
}

func TestMemoryManagerIdleStateNotInProgress(t *testing.T) {
	m := NewMemoryManager()
	m.Set(1, Session{State: StateIdle})
	assert.False(t, m.InProgress(1))
}

func TestRedisManager(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	m := NewRedisManager(client)

	assert.True(t, m.Get(7).Idle())

	m.Set(7, Session{State: StateAwaitingCustomReps, CurrentExercise: "Берпі"})
	got := m.Get(7)
	assert.Equal(t, StateAwaitingCustomReps, got.State)
	assert.Equal(t, "Берпі", got.CurrentExercise)
	assert.True(t, m.InProgress(7))

	// sessions carry a TTL so abandoned flows expire
	ttl := mr.TTL("conversation:session:7")
	assert.Equal(t, defaultSessionTTL, ttl)

	m.Clear(7)
	assert.True(t, m.Get(7).Idle())
}

func TestRedisManagerDegradesOnCorruptPayload(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("conversation:session:9", "{broken"))

	m := NewRedisManager(client)
	assert.True(t, m.Get(9).Idle())
	assert.False(t, m.InProgress(9))
}

func TestRedisManagerDegradesWhenUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	mr.Close()

	m := NewRedisManager(client)
	assert.True(t, m.Get(1).Idle())
	m.Set(1, Session{State: StateAwaitingMealName}) // logged, not fatal
	m.Clear(1)
}
