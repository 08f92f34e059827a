package wagon

import (
	"fmt"

	"github.com/google/uuid"
)

// DoorState is the runtime state of one door, layered on top of the
// static descriptor.
type DoorState string

const (
	DoorOpen    DoorState = "open"
	DoorLocked  DoorState = "locked"
	DoorBlocked DoorState = "blocked"
)

// TrainDoorState is the mutable runtime record for one door.
type TrainDoorState struct {
	ID    string    `json:"id"`
	State DoorState `json:"state"`
}

// WagonState holds the runtime door states for one wagon.
type WagonState struct {
	ID         string           `json:"id"`
	DoorStates []TrainDoorState `json:"door_states"`
}

// TrainState is the only mutable part of the train: the current wagon
// pointer and per-door runtime states.
type TrainState struct {
	CurrentWagonID string       `json:"current_wagon_id"`
	Wagons         []WagonState `json:"wagons"`
}

// TrainGraph owns the static wagon topology and its runtime state.
// The topology is immutable after construction; only door states and
// the current-wagon pointer change.
type TrainGraph struct {
	wagonsByID map[string]*WagonLayerData
	order      []string
	state      *TrainState
}

// NewTrainGraph builds a graph from the descriptor, resolving every
// door's initial runtime state.
func NewTrainGraph(desc *TrainDescriptor) *TrainGraph {
	g := &TrainGraph{
		wagonsByID: make(map[string]*WagonLayerData, len(desc.Wagons)),
		order:      make([]string, 0, len(desc.Wagons)),
		state: &TrainState{
			CurrentWagonID: desc.StartWagonID,
			Wagons:         make([]WagonState, 0, len(desc.Wagons)),
		},
	}
	for i := range desc.Wagons {
		w := &desc.Wagons[i]
		g.wagonsByID[w.ID] = w
		g.order = append(g.order, w.ID)
		g.state.Wagons = append(g.state.Wagons, newWagonState(w))
	}
	return g
}

func newWagonState(w *WagonLayerData) WagonState {
	ws := WagonState{ID: w.ID, DoorStates: make([]TrainDoorState, 0, len(w.Doors))}
	for _, door := range w.Doors {
		ws.DoorStates = append(ws.DoorStates, TrainDoorState{
			ID:    door.ID,
			State: ResolveInitialDoorState(door),
		})
	}
	return ws
}

// ResolveInitialDoorState applies the construction-time resolution rule:
// blocked-if-flag wins, then locked-by-flag (open when open-by-default),
// otherwise open.
func ResolveInitialDoorState(door DoorDescriptor) DoorState {
	if door.BlockedIfFlag != "" {
		return DoorBlocked
	}
	if door.LockedByFlag != "" {
		if door.OpenByDefault {
			return DoorOpen
		}
		return DoorLocked
	}
	return DoorOpen
}

// State returns the mutable runtime state. Callers must not reorder or
// remove entries directly; use Rearrange.
func (g *TrainGraph) State() *TrainState {
	return g.state
}

// CurrentWagon returns the descriptor of the wagon the player is in.
func (g *TrainGraph) CurrentWagon() (*WagonLayerData, error) {
	return g.Wagon(g.state.CurrentWagonID)
}

// Wagon looks up a wagon descriptor. An unknown id indicates a content
// or construction bug, not a recoverable runtime condition.
func (g *TrainGraph) Wagon(id string) (*WagonLayerData, error) {
	w, ok := g.wagonsByID[id]
	if !ok {
		return nil, fmt.Errorf("unknown wagon %q", id)
	}
	return w, nil
}

// AllWagons returns every wagon descriptor in declaration order.
func (g *TrainGraph) AllWagons() []*WagonLayerData {
	wagons := make([]*WagonLayerData, 0, len(g.order))
	for _, id := range g.order {
		wagons = append(wagons, g.wagonsByID[id])
	}
	return wagons
}

// DoorStateFor returns the runtime state of a door. A missing wagon or
// door state entry means the graph was constructed inconsistently.
func (g *TrainGraph) DoorStateFor(wagonID, doorID string) (DoorState, error) {
	ds, err := g.findDoorState(wagonID, doorID)
	if err != nil {
		return "", err
	}
	return ds.State, nil
}

// SetDoorState mutates the runtime state of a door.
func (g *TrainGraph) SetDoorState(wagonID, doorID string, state DoorState) error {
	ds, err := g.findDoorState(wagonID, doorID)
	if err != nil {
		return err
	}
	ds.State = state
	return nil
}

func (g *TrainGraph) findDoorState(wagonID, doorID string) (*TrainDoorState, error) {
	for i := range g.state.Wagons {
		if g.state.Wagons[i].ID != wagonID {
			continue
		}
		for j := range g.state.Wagons[i].DoorStates {
			if g.state.Wagons[i].DoorStates[j].ID == doorID {
				return &g.state.Wagons[i].DoorStates[j], nil
			}
		}
		return nil, fmt.Errorf("missing door state %q in wagon %q", doorID, wagonID)
	}
	return nil, fmt.Errorf("missing wagon state %q", wagonID)
}

// TravelTo moves the current-wagon pointer and returns the new wagon.
func (g *TrainGraph) TravelTo(wagonID string) (*WagonLayerData, error) {
	w, err := g.Wagon(wagonID)
	if err != nil {
		return nil, err
	}
	g.state.CurrentWagonID = wagonID
	return w, nil
}

// Rearrange reorders the wagon-state list, e.g. for a replay with
// shuffled geography. Existing door states are kept; wagons appearing
// for the first time get freshly resolved states. Duplicate ids are
// rejected.
func (g *TrainGraph) Rearrange(order []string) error {
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return fmt.Errorf("duplicate wagon id %q in order", id)
		}
		seen[id] = true
	}
	next := make([]WagonState, 0, len(order))
	for _, id := range order {
		if existing := g.wagonState(id); existing != nil {
			next = append(next, *existing)
			continue
		}
		w, err := g.Wagon(id)
		if err != nil {
			return err
		}
		next = append(next, newWagonState(w))
	}
	g.state.Wagons = next
	return nil
}

func (g *TrainGraph) wagonState(id string) *WagonState {
	for i := range g.state.Wagons {
		if g.state.Wagons[i].ID == id {
			return &g.state.Wagons[i]
		}
	}
	return nil
}

// RegisterDoorInstance ensures a runtime state entry exists for the
// given door, creating one with a resolved initial state (and a
// generated id when the descriptor has none) if needed.
func (g *TrainGraph) RegisterDoorInstance(wagonID string, door DoorDescriptor) (TrainDoorState, error) {
	ws := g.wagonState(wagonID)
	if ws == nil {
		return TrainDoorState{}, fmt.Errorf("missing wagon state %q", wagonID)
	}
	for _, ds := range ws.DoorStates {
		if ds.ID == door.ID {
			return ds, nil
		}
	}
	id := door.ID
	if id == "" {
		id = uuid.NewString()
	}
	ds := TrainDoorState{ID: id, State: ResolveInitialDoorState(door)}
	ws.DoorStates = append(ws.DoorStates, ds)
	return ds, nil
}
