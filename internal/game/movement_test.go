package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

func movementFixture() (*state.GameState, *Movement) {
	w := &wagon.WagonLayerData{ID: "car-a", Spawn: iso.Point{X: 0, Y: 0}}
	gs := state.NewGameState(state.Config{TileWidth: 128, TileHeight: 64}, w, &wagon.TrainState{CurrentWagonID: "car-a"})
	return gs, NewMovement(gs)
}

func TestUpdateSnapsToCloseWaypoint(t *testing.T) {
	gs, m := movementFixture()
	gs.Player.Speed = 1
	gs.Player.Path = []iso.Point{{X: 0.5, Y: 0}}
	gs.Player.IsMoving = true

	m.Update(1)

	assert.Equal(t, iso.Point{X: 0.5, Y: 0}, gs.Player.Position)
	assert.Empty(t, gs.Player.Path)
	assert.False(t, gs.Player.IsMoving)
}

func TestUpdateAdvancesPartway(t *testing.T) {
	gs, m := movementFixture()
	gs.Player.Speed = 1
	gs.Player.Path = []iso.Point{{X: 2, Y: 0}}
	gs.Player.IsMoving = true

	m.Update(1)

	// Distance 2, max step 1: exactly halfway.
	assert.InDelta(t, 1.0, gs.Player.Position.X, 1e-9)
	assert.InDelta(t, 0.0, gs.Player.Position.Y, 1e-9)
	assert.True(t, gs.Player.IsMoving)
	require.Len(t, gs.Player.Path, 1)
	assert.Equal(t, iso.Point{X: 2, Y: 0}, gs.Player.Path[0])
}

func TestUpdateWithoutPath(t *testing.T) {
	gs, m := movementFixture()
	gs.Player.IsMoving = true

	m.Update(0.5)

	assert.False(t, gs.Player.IsMoving)
}

func TestMoveToWithoutMeshIsNoOp(t *testing.T) {
	gs, m := movementFixture()

	m.MoveTo(iso.Point{X: 3, Y: 0})

	assert.Empty(t, gs.Player.Path)
	assert.False(t, gs.Player.IsMoving)
}

func TestMoveToBuildsPathWithPulledBackStop(t *testing.T) {
	gs, m := movementFixture()
	m.SetMesh([]iso.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
	})

	target := iso.Point{X: 3, Y: 0}
	m.MoveTo(target)

	require.NotEmpty(t, gs.Player.Path)
	assert.True(t, gs.Player.IsMoving)

	// The final waypoint stops short of the target by the clearance
	// distance, measured in projected pixels.
	last := gs.Player.Path[len(gs.Player.Path)-1]
	assert.Less(t, last.X, target.X)
	cfg := gs.Config
	gap := iso.ScreenDistance(
		iso.ToScreen(last, cfg.TileWidth, cfg.TileHeight),
		iso.ToScreen(target, cfg.TileWidth, cfg.TileHeight),
	)
	assert.InDelta(t, stopDistancePX, gap, 1e-6)
}

func TestMoveToUnreachableClearsPath(t *testing.T) {
	gs, m := movementFixture()
	m.SetMesh([]iso.Point{{X: 0, Y: 0}, {X: 10, Y: 10}})
	gs.Player.Path = []iso.Point{{X: 1, Y: 0}}
	gs.Player.IsMoving = true

	// (10,10) is an island; pathing fails silently.
	gs.Player.Position = iso.Point{X: 0, Y: 0}
	m.MoveTo(iso.Point{X: 10, Y: 10})

	assert.Empty(t, gs.Player.Path)
	assert.False(t, gs.Player.IsMoving)
}

func TestStop(t *testing.T) {
	gs, m := movementFixture()
	gs.Player.Path = []iso.Point{{X: 1, Y: 1}}
	gs.Player.IsMoving = true

	m.Stop()

	assert.Empty(t, gs.Player.Path)
	assert.False(t, gs.Player.IsMoving)
}

func TestUpdateFacesWaypoint(t *testing.T) {
	gs, m := movementFixture()
	gs.Player.Speed = 1
	gs.Player.Path = []iso.Point{{X: 10, Y: 0}}

	m.Update(1)

	// Heading straight along +X: facing stays ~0 radians.
	assert.InDelta(t, 0.0, gs.Player.Facing, 1e-9)
}
