package server

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

type RouterConfig struct {
	StaticDir   string
	MetricsPath string
}

func NewRouter(gameServer *GameServer, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", gameServer.Connect)
	mux.HandleFunc("GET /players", gameServer.Players)
	mux.HandleFunc("GET /players/{id}", gameServer.Player)
	if cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, gameServer.hub.Metrics().Handler())
	}
	if cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: gameServer.hub.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	})
	return c.Handler(mux)
}

// NewHTTPServer returns a server for handler. There is no write timeout
// since websocket connections are long lived.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
