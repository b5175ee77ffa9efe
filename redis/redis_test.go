package redis

import (
	"context"
	"testing"
	"time"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ tycoon.PlayerService = (*DB)(nil)

// nothing listens on port 1, so every command fails fast
func unreachableDB(t *testing.T) *DB {
	db := NewDB(Options{Addr: "127.0.0.1:1", KeyTTL: time.Minute})
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPlayerHash(t *testing.T) {
	id := uuid.New()
	h := playerHash(tycoon.PlayerSnapshot{ID: id, Money: 42})

	assert.Equal(t, id.String(), h["id"])
	assert.Equal(t, 42, h["money"])
}

func TestSavePlayersEmptySkipsRedis(t *testing.T) {
	db := unreachableDB(t)

	assert.NoError(t, db.SavePlayers(context.Background(), nil))
}

func TestSavePlayersUnreachable(t *testing.T) {
	db := unreachableDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := db.SavePlayers(ctx, []tycoon.PlayerSnapshot{{ID: uuid.New(), Money: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save 1 players")
}

func TestRemovePlayerUnreachable(t *testing.T) {
	db := unreachableDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	id := uuid.New()
	err := db.RemovePlayer(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), id.String())
}

func TestPingUnreachable(t *testing.T) {
	db := unreachableDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, db.Ping(ctx))
}
