package redis

import (
	"context"
	"fmt"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func playerHash(p tycoon.PlayerSnapshot) map[string]interface{} {
	return map[string]interface{}{
		"id":    p.ID.String(),
		"money": p.Money,
	}
}

// SavePlayers writes every player's hash and rebuilds the leaderboard from
// the given players in one transaction. players is the full live set, so
// anyone missing from it drops off the leaderboard.
func (db *DB) SavePlayers(ctx context.Context, players []tycoon.PlayerSnapshot) error {
	if len(players) == 0 {
		return nil
	}

	scores := make([]redis.Z, 0, len(players))
	_, err := db.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range players {
			key := fmt.Sprintf(playerKey, p.ID)
			pipe.HSet(ctx, key, playerHash(p))
			if db.keyTTL > 0 {
				pipe.Expire(ctx, key, db.keyTTL)
			}
			scores = append(scores, redis.Z{Score: float64(p.Money), Member: p.ID.String()})
		}

		pipe.Del(ctx, leaderboardKey)
		pipe.ZAdd(ctx, leaderboardKey, scores...)
		if db.keyTTL > 0 {
			pipe.Expire(ctx, leaderboardKey, db.keyTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %d players: %w", len(players), err)
	}

	return nil
}

// RemovePlayer deletes a disconnected player's hash and leaderboard entry.
func (db *DB) RemovePlayer(ctx context.Context, id uuid.UUID) error {
	_, err := db.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, fmt.Sprintf(playerKey, id))
		pipe.ZRem(ctx, leaderboardKey, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove player %s: %w", id, err)
	}

	return nil
}
