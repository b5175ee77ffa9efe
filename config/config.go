package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dylanconnolly/tycoon-be/redis"
	"github.com/dylanconnolly/tycoon-be/server"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Game    GameConfig    `toml:"game"`
	HTTP    HTTPConfig    `toml:"http"`
	Redis   RedisConfig   `toml:"redis"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Listen         string        `toml:"listen"`
	SendQueueSize  int           `toml:"send_queue_size"`  // per-session outbound queue
	WriteWait      time.Duration `toml:"write_wait"`       // per-frame write deadline
	PongWait       time.Duration `toml:"pong_wait"`        // read deadline, refreshed by pongs
	MaxMessageSize int64         `toml:"max_message_size"` // inbound frame limit in bytes
	AllowedOrigins []string      `toml:"allowed_origins"`
}

type GameConfig struct {
	TickPeriod   time.Duration `toml:"tick_period"`
	MoneyPerTick int           `toml:"money_per_tick"`
}

type HTTPConfig struct {
	StaticDir   string `toml:"static_dir"`
	MetricsPath string `toml:"metrics_path"`
}

type RedisConfig struct {
	Enabled  bool          `toml:"enabled"`
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	KeyTTL   time.Duration `toml:"key_ttl"`
	Timeout  time.Duration `toml:"timeout"` // per store call
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:         "127.0.0.1:8000",
			SendQueueSize:  256,
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			MaxMessageSize: 512,
			AllowedOrigins: []string{"*"},
		},
		Game: GameConfig{
			TickPeriod:   500 * time.Millisecond,
			MoneyPerTick: 1,
		},
		HTTP: HTTPConfig{
			StaticDir:   "./static",
			MetricsPath: "/metrics",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			KeyTTL:  30 * time.Second,
			Timeout: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// HubOptions converts the config into server.Options.
func (c *Config) HubOptions() server.Options {
	return server.Options{
		TickPeriod:     c.Game.TickPeriod,
		MoneyPerTick:   c.Game.MoneyPerTick,
		SendQueueSize:  c.Server.SendQueueSize,
		WriteWait:      c.Server.WriteWait,
		PongWait:       c.Server.PongWait,
		MaxMessageSize: c.Server.MaxMessageSize,
		AllowedOrigins: c.Server.AllowedOrigins,
		StoreTimeout:   c.Redis.Timeout,
	}
}

func (c *Config) RouterConfig() server.RouterConfig {
	return server.RouterConfig{
		StaticDir:   c.HTTP.StaticDir,
		MetricsPath: c.HTTP.MetricsPath,
	}
}

func (c *Config) RedisOptions() redis.Options {
	return redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		KeyTTL:   c.Redis.KeyTTL,
	}
}
