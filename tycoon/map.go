package tycoon

import "fmt"

const starterBuilding = "building_1"

type Building struct {
	ResourceName       string `json:"resource_name"`
	UpgradeLevel       int    `json:"upgrade_level"`
	BaseUpgradeCost    int    `json:"base_upgrade_cost"`
	TickMoneyBaseValue int    `json:"tick_money_base_value"`
}

type MapGrid struct {
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Building *Building `json:"building,omitempty"`
}

// Coord returns the grid's key in a GameMap, e.g. "0_1".
func (g MapGrid) Coord() string {
	return fmt.Sprintf("%d_%d", g.X, g.Y)
}

// GameMap holds a player's grids keyed by Coord.
type GameMap map[string]MapGrid

// NewStarterMap returns the map every new player is given: an empty origin
// tile with a level 1 building on each side.
func NewStarterMap() GameMap {
	grids := []MapGrid{
		{X: 0, Y: 0},
		{X: 0, Y: 1, Building: newStarterBuilding()},
		{X: 1, Y: 0, Building: newStarterBuilding()},
	}

	m := make(GameMap, len(grids))
	for _, g := range grids {
		m[g.Coord()] = g
	}
	return m
}

func newStarterBuilding() *Building {
	return &Building{
		ResourceName:       starterBuilding,
		UpgradeLevel:       1,
		BaseUpgradeCost:    100,
		TickMoneyBaseValue: 1,
	}
}

// Clone deep-copies the map including buildings.
func (m GameMap) Clone() GameMap {
	if m == nil {
		return nil
	}
	out := make(GameMap, len(m))
	for k, g := range m {
		if g.Building != nil {
			b := *g.Building
			g.Building = &b
		}
		out[k] = g
	}
	return out
}
