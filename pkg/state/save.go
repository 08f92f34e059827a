package state

import (
	"sort"
	"time"

	"github.com/deadtrain/engine/pkg/iso"
)

// SaveRecord is a flat snapshot of exactly the state needed to resume
// a session. It is written after every state-changing action, not just
// on exit.
type SaveRecord struct {
	WagonID   string         `json:"wagon_id"`
	Position  iso.Point      `json:"position"`
	Flags     []string       `json:"flags"`
	Endings   []string       `json:"endings"`
	Inventory map[string]int `json:"inventory"`
	Timestamp time.Time      `json:"timestamp"`
}

// CreateSave snapshots the game state. Flag slices are sorted so
// snapshots are deterministic.
func CreateSave(gs *GameState) *SaveRecord {
	inventory := make(map[string]int, len(gs.Inventory))
	for item, count := range gs.Inventory {
		inventory[item] = count
	}
	return &SaveRecord{
		WagonID:   gs.Train.CurrentWagonID,
		Position:  gs.Player.Position,
		Flags:     sortedKeys(gs.Flags.Story),
		Endings:   sortedKeys(gs.Flags.Endings),
		Inventory: inventory,
		Timestamp: time.Now(),
	}
}

// ApplySave restores a snapshot into the aggregate. The caller is
// responsible for the follow-up work a wagon change implies: swapping
// the mesh, rebuilding targets and refreshing door states from flags.
func ApplySave(gs *GameState, save *SaveRecord) {
	gs.Train.CurrentWagonID = save.WagonID
	gs.Player.Position = save.Position
	gs.Player.Path = nil
	gs.Player.IsMoving = false
	gs.Flags.Story = make(map[string]bool, len(save.Flags))
	for _, flag := range save.Flags {
		gs.Flags.Story[flag] = true
	}
	gs.Flags.Endings = make(map[string]bool, len(save.Endings))
	for _, id := range save.Endings {
		gs.Flags.Endings[id] = true
	}
	gs.Inventory = make(Inventory, len(save.Inventory))
	for item, count := range save.Inventory {
		if count > 0 {
			gs.Inventory[item] = count
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
