// Package state holds the mutable session aggregate: current wagon,
// player kinematics, story and ending flags, inventory, interaction
// targets and the input-block flag. It has no behavior beyond
// construction and small flag/inventory helpers; all game logic lives
// in the interaction layer, which mutates this aggregate in place.
package state

import (
	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/wagon"
)

// Config is the fixed projection geometry of the session.
type Config struct {
	VirtualWidth  float64 `json:"virtual_width"`
	VirtualHeight float64 `json:"virtual_height"`
	TileWidth     float64 `json:"tile_width"`
	TileHeight    float64 `json:"tile_height"`
}

// DefaultPlayerSpeed is in grid units per second.
const DefaultPlayerSpeed = 1.2

// PlayerState is the player's kinematic state. Path is the ordered
// queue of waypoints still to visit.
type PlayerState struct {
	Position iso.Point   `json:"position"`
	Facing   float64     `json:"facing"`
	Speed    float64     `json:"speed"`
	Path     []iso.Point `json:"path,omitempty"`
	IsMoving bool        `json:"is_moving"`
}

// MarkerState is the transient move/inspect marker. It is shown when
// the player issues a move or inspect intent, independent of whether
// pathing succeeds.
type MarkerState struct {
	Visible  bool      `json:"visible"`
	Position iso.Point `json:"position"`
}

// Flags keeps the two disjoint string sets: story flags gate doors,
// dialogue and objects and only ever grow within a session; ending
// flags record reached endings and gate nothing.
type Flags struct {
	Story   map[string]bool `json:"story"`
	Endings map[string]bool `json:"endings"`
}

// Inventory maps item ids to counts. A zero count is equivalent to
// absence and is pruned on decrement.
type Inventory map[string]int

// TargetKind tags the three interactive target variants.
type TargetKind string

const (
	TargetDoor   TargetKind = "door"
	TargetNPC    TargetKind = "npc"
	TargetObject TargetKind = "object"
)

// DoorRef ties a door target back to its wagon and descriptor.
type DoorRef struct {
	WagonID    string
	Descriptor wagon.DoorDescriptor
}

// Target is an ephemeral interaction target, rebuilt every time the
// active wagon changes. Radius is the hit radius; the hit tester adds
// its own forgiveness margin on top.
type Target struct {
	ID       string
	Kind     TargetKind
	Position iso.Point
	Radius   float64

	// Kind-specific metadata.
	Door       *DoorRef
	DialogueID string
	Name       string
	Label      string
	OnUse      string
}

// GameState is the session aggregate. It is created once per session
// and mutated in place; it is replaced wholesale only when a save is
// restored.
type GameState struct {
	Config         Config
	Train          *wagon.TrainState
	Wagon          *wagon.WagonLayerData
	Flags          Flags
	Inventory      Inventory
	Player         PlayerState
	Marker         MarkerState
	CurrentTargets []Target
	IsInputBlocked bool
}

// NewGameState creates the aggregate for a fresh session, spawning the
// player at the wagon's spawn point.
func NewGameState(cfg Config, w *wagon.WagonLayerData, train *wagon.TrainState) *GameState {
	return &GameState{
		Config: cfg,
		Train:  train,
		Wagon:  w,
		Flags: Flags{
			Story:   make(map[string]bool),
			Endings: make(map[string]bool),
		},
		Inventory: make(Inventory),
		Player: PlayerState{
			Position: w.Spawn,
			Speed:    DefaultPlayerSpeed,
		},
	}
}

// HasFlag reports whether a story flag is set.
func (gs *GameState) HasFlag(flag string) bool {
	return gs.Flags.Story[flag]
}

// AddStoryFlag sets a story flag, returning false if it was already
// set. Story flags are never cleared within a session.
func (gs *GameState) AddStoryFlag(flag string) bool {
	if gs.Flags.Story[flag] {
		return false
	}
	gs.Flags.Story[flag] = true
	return true
}

// AddEnding records a reached ending, returning false if already
// recorded. Endings never gate anything; they exist for the
// endings-discovered UI only.
func (gs *GameState) AddEnding(id string) bool {
	if gs.Flags.Endings[id] {
		return false
	}
	gs.Flags.Endings[id] = true
	return true
}

// HasItem reports whether at least one of the item is held.
func (gs *GameState) HasItem(item string) bool {
	return gs.Inventory[item] > 0
}

// GiveItem increments the item's count.
func (gs *GameState) GiveItem(item string) {
	gs.Inventory[item]++
}

// RemoveItem decrements the item's count, pruning the entry at zero.
// It returns false without mutation when none are held, so callers can
// use it as a gate.
func (gs *GameState) RemoveItem(item string) bool {
	count := gs.Inventory[item]
	if count <= 0 {
		return false
	}
	if count == 1 {
		delete(gs.Inventory, item)
	} else {
		gs.Inventory[item] = count - 1
	}
	return true
}
