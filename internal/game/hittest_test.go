package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

func hitFixture(targets ...state.Target) (*state.GameState, *HitTester) {
	w := &wagon.WagonLayerData{ID: "car-a"}
	gs := state.NewGameState(state.Config{TileWidth: 128, TileHeight: 64}, w, &wagon.TrainState{CurrentWagonID: "car-a"})
	gs.CurrentTargets = targets
	return gs, NewHitTester(gs)
}

func TestHitTestInputBlocked(t *testing.T) {
	gs, h := hitFixture(state.Target{ID: "door", Kind: state.TargetDoor, Radius: 48})
	gs.IsInputBlocked = true

	result := h.HitTest(iso.ScreenPoint{}, false)

	assert.Equal(t, HitUI, result.Kind)
	assert.Nil(t, result.Target)
	assert.Nil(t, result.Destination)
}

func TestHitTestUIChainBlocked(t *testing.T) {
	_, h := hitFixture(state.Target{ID: "door", Kind: state.TargetDoor, Radius: 48})

	result := h.HitTest(iso.ScreenPoint{}, true)

	assert.Equal(t, HitUI, result.Kind)
	assert.Nil(t, result.Target)
}

func TestHitTestForgivenessBoundary(t *testing.T) {
	// Target at grid origin projects to screen origin.
	target := state.Target{ID: "obj", Kind: state.TargetObject, Position: iso.Point{}, Radius: 40}

	_, h := hitFixture(target)

	// Exactly radius+forgiveness away: hit.
	result := h.HitTest(iso.ScreenPoint{X: 40 + forgivenessPX, Y: 0}, false)
	require.NotNil(t, result.Target)
	assert.Equal(t, "obj", result.Target.ID)

	// One pixel farther: falls through to free movement.
	result = h.HitTest(iso.ScreenPoint{X: 40 + forgivenessPX + 1, Y: 0}, false)
	assert.Nil(t, result.Target)
	assert.NotNil(t, result.Destination)
}

func TestHitTestPriorityBeatsDistance(t *testing.T) {
	// Object sits exactly on the tap; door overlaps from farther away.
	object := state.Target{ID: "obj", Kind: state.TargetObject, Position: iso.Point{}, Radius: 40}
	door := state.Target{ID: "door", Kind: state.TargetDoor, Position: iso.Point{X: 0.2, Y: 0.2}, Radius: 48}

	_, h := hitFixture(object, door)

	result := h.HitTest(iso.ScreenPoint{}, false)
	require.NotNil(t, result.Target)
	assert.Equal(t, "door", result.Target.ID, "door must win regardless of distance")
	assert.Nil(t, result.Destination, "no destination is computed when a target is hit")
}

func TestHitTestEqualPriorityNearestWins(t *testing.T) {
	near := state.Target{ID: "near", Kind: state.TargetObject, Position: iso.Point{}, Radius: 40}
	far := state.Target{ID: "far", Kind: state.TargetObject, Position: iso.Point{X: 0.3, Y: 0.3}, Radius: 48}

	_, h := hitFixture(far, near)

	result := h.HitTest(iso.ScreenPoint{}, false)
	require.NotNil(t, result.Target)
	assert.Equal(t, "near", result.Target.ID)
}

func TestHitTestWorldDestination(t *testing.T) {
	_, h := hitFixture()

	result := h.HitTest(iso.ScreenPoint{X: 64, Y: 32}, false)

	assert.Equal(t, HitWorld, result.Kind)
	require.NotNil(t, result.Destination)
	// Exact algebraic inverse of the projection.
	assert.InDelta(t, 1.0, result.Destination.X, 1e-9)
	assert.InDelta(t, 0.0, result.Destination.Y, 1e-9)
}
