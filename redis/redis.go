package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	playerKey      string = "player:%s"
	leaderboardKey string = "players:money"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	// KeyTTL bounds how long the player hashes and the leaderboard outlive
	// the last tick that saved them, so a crashed server does not leave
	// stale players behind.
	KeyTTL time.Duration
}

// DB mirrors live player balances into Redis for readers outside the
// server. Nothing is read back on startup.
type DB struct {
	client *redis.Client
	keyTTL time.Duration
}

func NewDB(opts Options) *DB {
	return &DB{
		client: NewClient(opts),
		keyTTL: opts.KeyTTL,
	}
}

func NewClient(opts Options) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	return rdb
}

// Ping checks the connection. Called once at startup.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.client.Close()
}
