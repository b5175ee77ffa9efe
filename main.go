package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dylanconnolly/tycoon-be/config"
	"github.com/dylanconnolly/tycoon-be/redis"
	"github.com/dylanconnolly/tycoon-be/server"
	"github.com/dylanconnolly/tycoon-be/tycoon"
	"go.uber.org/zap"
)

var (
	configPath string
	listen     string
	debug      bool
)

func main() {
	flag.StringVar(&configPath, "config", "tycoon.toml", "Path to config file")
	flag.StringVar(&listen, "listen", "", "Listen address (overrides config)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	logger, err := newLogger(cfg.Logging, debug)
	if err != nil {
		log.Fatalf("failed to build logger: %s", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start app", zap.Error(err))
	}

	if err := app.Run(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

type App struct {
	hub        *server.Hub
	gameServer *server.GameServer
	httpServer *http.Server
	db         *redis.DB
	log        *zap.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	var (
		players tycoon.PlayerService = tycoon.NopPlayerService{}
		db      *redis.DB
	)
	if cfg.Redis.Enabled {
		db = redis.NewDB(cfg.RedisOptions())

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			db.Close()
			return nil, err
		}
		players = db
		logger.Info("mirroring players to redis", zap.String("addr", cfg.Redis.Addr))
	}

	hub := server.NewHub(players, cfg.HubOptions(), logger.Named("hub"))
	gameServer := server.NewGameServer(hub)
	httpServer := server.NewHTTPServer(cfg.Server.Listen, server.NewRouter(gameServer, cfg.RouterConfig()))

	return &App{
		hub:        hub,
		gameServer: gameServer,
		httpServer: httpServer,
		db:         db,
		log:        logger,
	}, nil
}

// Run serves until ctx is cancelled. Open connections are dropped, not
// drained.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", a.httpServer.Addr))
		errc <- a.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		a.close()
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Warn("error shutting down http server", zap.Error(err))
	}
	a.close()
	return nil
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("error closing redis", zap.Error(err))
		}
	}
}

func newLogger(cfg config.LoggingConfig, debug bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level.SetLevel(zap.DebugLevel)
	}
	zc.Level = level

	return zc.Build()
}
