package state

import (
	"testing"

	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/wagon"
)

func testWagon() *wagon.WagonLayerData {
	return &wagon.WagonLayerData{
		ID:    "car-a",
		Title: "Car A",
		Spawn: iso.Point{X: 1, Y: 2},
	}
}

func newTestState() *GameState {
	w := testWagon()
	train := &wagon.TrainState{CurrentWagonID: w.ID}
	return NewGameState(Config{TileWidth: 128, TileHeight: 64}, w, train)
}

func TestNewGameState(t *testing.T) {
	gs := newTestState()

	if gs.Player.Position != (iso.Point{X: 1, Y: 2}) {
		t.Errorf("player should spawn at wagon spawn, got %+v", gs.Player.Position)
	}
	if gs.Player.Speed != DefaultPlayerSpeed {
		t.Errorf("expected default speed, got %v", gs.Player.Speed)
	}
	if gs.IsInputBlocked {
		t.Error("input must not start blocked")
	}
	if len(gs.Flags.Story) != 0 || len(gs.Flags.Endings) != 0 {
		t.Error("flags must start empty")
	}
}

func TestStoryFlags(t *testing.T) {
	gs := newTestState()

	if !gs.AddStoryFlag("foundTicket") {
		t.Error("first set should report true")
	}
	if gs.AddStoryFlag("foundTicket") {
		t.Error("second set should report false")
	}
	if !gs.HasFlag("foundTicket") {
		t.Error("flag should be set")
	}
	if gs.HasFlag("powerRestored") {
		t.Error("unset flag should not be reported")
	}
}

func TestEndingsAreSeparateFromStory(t *testing.T) {
	gs := newTestState()

	gs.AddEnding("last-stop")
	if gs.HasFlag("last-stop") {
		t.Error("endings must not leak into story flags")
	}
	if !gs.AddEnding("loop") {
		t.Error("new ending should report true")
	}
	if gs.AddEnding("loop") {
		t.Error("repeated ending should report false")
	}
}

func TestInventory(t *testing.T) {
	gs := newTestState()

	if gs.HasItem("fuse") {
		t.Error("empty inventory should have no fuse")
	}
	if gs.RemoveItem("fuse") {
		t.Error("removing a missing item must fail without mutation")
	}

	gs.GiveItem("fuse")
	gs.GiveItem("fuse")
	if gs.Inventory["fuse"] != 2 {
		t.Errorf("expected 2 fuses, got %d", gs.Inventory["fuse"])
	}

	if !gs.RemoveItem("fuse") {
		t.Error("expected removal to succeed")
	}
	if gs.Inventory["fuse"] != 1 {
		t.Errorf("expected 1 fuse, got %d", gs.Inventory["fuse"])
	}

	// Decrement to zero prunes the entry entirely.
	if !gs.RemoveItem("fuse") {
		t.Error("expected removal to succeed")
	}
	if _, exists := gs.Inventory["fuse"]; exists {
		t.Error("zero-count entry must be pruned")
	}
}
