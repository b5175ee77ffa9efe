package tycoon

import (
	"context"

	"github.com/google/uuid"
)

// PlayerService mirrors live player state to an external store. It is
// write-only from the server's point of view: nothing is ever loaded back.
type PlayerService interface {
	SavePlayers(ctx context.Context, players []PlayerSnapshot) error
	RemovePlayer(ctx context.Context, id uuid.UUID) error
}

// NopPlayerService discards everything. Used when no store is configured.
type NopPlayerService struct{}

func (NopPlayerService) SavePlayers(context.Context, []PlayerSnapshot) error { return nil }

func (NopPlayerService) RemovePlayer(context.Context, uuid.UUID) error { return nil }
