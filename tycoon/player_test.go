package tycoon_test

import (
	"encoding/json"
	"testing"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewPlayer(t *testing.T) {
	id := uuid.New()
	p := tycoon.NewPlayer(id)

	assert.Equal(t, id, p.ID)
	assert.Equal(t, 0, p.Money)
	assert.Len(t, p.Map, 3)
}

func TestEarn(t *testing.T) {
	p := tycoon.NewPlayer(uuid.New())

	p.Earn(1)
	p.Earn(1)
	assert.Equal(t, 2, p.Money)

	p.Earn(5)
	assert.Equal(t, 7, p.Money)
}

func TestSnapshot(t *testing.T) {
	p := tycoon.NewPlayer(uuid.New())
	p.Earn(3)

	s := p.Snapshot(false)
	assert.Equal(t, p.ID, s.ID)
	assert.Equal(t, 3, s.Money)
	assert.Nil(t, s.Map)

	withMap := p.Snapshot(true)
	assert.Len(t, withMap.Map, 3)

	// mutating the copy leaves the player alone
	withMap.Map["0_1"].Building.UpgradeLevel = 9
	assert.Equal(t, 1, p.Map["0_1"].Building.UpgradeLevel)

	p.Earn(1)
	assert.Equal(t, 3, s.Money)
}

func TestSnapshotMarshalJSON(t *testing.T) {
	p := tycoon.NewPlayer(uuid.New())

	bytes, err := json.Marshal(p.Snapshot(false))
	if !assert.NoError(t, err) {
		t.Error("error marshalling snapshot: ", err)
	}

	var resp map[string]interface{}
	json.Unmarshal(bytes, &resp)
	assert.Contains(t, resp, "id")
	assert.Contains(t, resp, "money")
	assert.NotContains(t, resp, "map")
}
