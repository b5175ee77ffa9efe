package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GameServer struct {
	hub *Hub
}

func NewGameServer(hub *Hub) *GameServer {
	return &GameServer{hub: hub}
}

type HttpPlayersResp struct {
	Count   int                     `json:"count"`
	Players []tycoon.PlayerSnapshot `json:"players"`
}

// Connect upgrades the request to a websocket session.
func (g *GameServer) Connect(w http.ResponseWriter, r *http.Request) {
	g.hub.ServeWebsocket(w, r)
}

// Players writes every active player's balance, richest first.
func (g *GameServer) Players(w http.ResponseWriter, r *http.Request) {
	players := g.hub.Registry().Players()
	sort.Slice(players, func(i, j int) bool {
		if players[i].Money != players[j].Money {
			return players[i].Money > players[j].Money
		}
		return players[i].ID.String() < players[j].ID.String()
	})

	g.writeJSON(w, http.StatusOK, HttpPlayersResp{Count: len(players), Players: players})
}

// Player writes one active player's balance and map.
func (g *GameServer) Player(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		g.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid player id"})
		return
	}

	player, ok := g.hub.Registry().Player(id)
	if !ok {
		g.writeJSON(w, http.StatusNotFound, map[string]string{"error": "player not found"})
		return
	}

	g.writeJSON(w, http.StatusOK, player)
}

func (g *GameServer) writeJSON(w http.ResponseWriter, statusCode int, obj any) {
	if err := writeJSON(w, statusCode, obj); err != nil {
		g.hub.log.Warn("error writing response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, obj any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(b)
	return err
}
