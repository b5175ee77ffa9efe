package tycoon

import (
	"github.com/google/uuid"
)

// Player is the mutable per-session game state. Money only changes through
// Earn, which the tick loop calls while holding the registry write lock.
type Player struct {
	ID    uuid.UUID
	Money int
	Map   GameMap
}

// PlayerSnapshot is a copy of a player's state safe to hand outside the
// registry lock.
type PlayerSnapshot struct {
	ID    uuid.UUID `json:"id"`
	Money int       `json:"money"`
	Map   GameMap   `json:"map,omitempty"`
}

func NewPlayer(id uuid.UUID) *Player {
	return &Player{
		ID:  id,
		Map: NewStarterMap(),
	}
}

func (p *Player) Earn(amount int) {
	p.Money += amount
}

// Snapshot copies the player. The map is only included when withMap is set.
func (p *Player) Snapshot(withMap bool) PlayerSnapshot {
	s := PlayerSnapshot{
		ID:    p.ID,
		Money: p.Money,
	}
	if withMap {
		s.Map = p.Map.Clone()
	}
	return s
}
