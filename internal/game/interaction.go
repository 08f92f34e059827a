package game

import (
	"context"
	"log/slog"

	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

// IntentType tags the three player intent variants.
type IntentType string

const (
	IntentMoveTo   IntentType = "MoveTo"
	IntentInteract IntentType = "Interact"
	IntentInspect  IntentType = "Inspect"
)

// Intent is a normalized description of player input, independent of
// the raw pointer event.
type Intent struct {
	Type        IntentType
	Target      *state.Target
	Destination *iso.Point
}

// ScriptSource resolves dialogue scripts by id. A nil script with nil
// error means the NPC has nothing to say.
type ScriptSource interface {
	GetDialogue(ctx context.Context, id string) (*dialogue.Script, error)
}

// InteractionDeps wires the dispatcher to its collaborators.
type InteractionDeps struct {
	State    *state.GameState
	Movement *Movement
	Train    *wagon.TrainGraph
	Scripts  ScriptSource
	Toast    Toast
	Audio    Audio
	Logger   *slog.Logger

	// Travel performs the awaited room transition (fade, swap,
	// ambience). It must complete before the dispatcher continues.
	Travel func(ctx context.Context, wagonID string, spawn iso.Point) error

	// Persist triggers a fire-and-forget save. Called at the end of
	// each state-changing branch to keep save timing deterministic.
	Persist func()

	// DialogueOpened hands a fresh dialogue runtime to the shell for
	// presentation.
	DialogueOpened func(*dialogue.Runtime)
}

// Interaction is the central dispatcher: it turns an Intent into state
// mutations, door transitions, dialogue launches and persistence
// triggers.
type Interaction struct {
	deps InteractionDeps
}

func NewInteraction(deps InteractionDeps) *Interaction {
	return &Interaction{deps: deps}
}

// HandleIntent dispatches one intent. Errors indicate data or
// construction bugs (unknown wagon, missing door state), never user
// mistakes; those surface as in-world messages instead.
func (i *Interaction) HandleIntent(ctx context.Context, intent Intent) error {
	switch intent.Type {
	case IntentMoveTo:
		if intent.Destination != nil {
			i.handleMove(*intent.Destination)
		}
	case IntentInteract:
		if intent.Target != nil {
			return i.handleInteraction(ctx, intent.Target)
		}
	case IntentInspect:
		i.handleInspect(intent.Target, intent.Destination)
	}
	return nil
}

func (i *Interaction) handleMove(destination iso.Point) {
	gs := i.deps.State
	gs.Marker.Visible = true
	gs.Marker.Position = destination
	i.deps.Movement.MoveTo(destination)
	i.deps.Audio.PlayStep()
}

func (i *Interaction) handleInteraction(ctx context.Context, target *state.Target) error {
	switch target.Kind {
	case state.TargetDoor:
		return i.handleDoor(ctx, target)
	case state.TargetNPC:
		return i.handleNPC(ctx, target)
	case state.TargetObject:
		i.handleObject(target)
	}
	return nil
}

func (i *Interaction) handleDoor(ctx context.Context, target *state.Target) error {
	door := target.Door
	if door == nil {
		return nil
	}
	gs := i.deps.State

	doorState, err := i.deps.Train.DoorStateFor(door.WagonID, door.Descriptor.ID)
	if err != nil {
		i.deps.Logger.Error("door state lookup failed", "wagon", door.WagonID, "door", door.Descriptor.ID, "error", err)
		return err
	}
	switch doorState {
	case wagon.DoorBlocked:
		i.deps.Toast.Show("The door is jammed shut. It will not budge.")
		return nil
	case wagon.DoorLocked:
		// Holding the gating flag promotes the door silently: the
		// player found a legitimate reason, no second tap needed.
		if door.Descriptor.LockedByFlag != "" && gs.HasFlag(door.Descriptor.LockedByFlag) {
			if err := i.deps.Train.SetDoorState(door.WagonID, door.Descriptor.ID, wagon.DoorOpen); err != nil {
				return err
			}
		} else {
			i.deps.Toast.Show("The mechanism does not respond. Something is still missing.")
			return nil
		}
	}

	gs.Marker.Visible = false
	i.deps.Movement.Stop()
	if err := i.deps.Travel(ctx, door.Descriptor.TargetWagonID, door.Descriptor.SpawnPoint); err != nil {
		return err
	}
	i.deps.Persist()
	return nil
}

func (i *Interaction) handleNPC(ctx context.Context, target *state.Target) error {
	if target.DialogueID == "" {
		return nil
	}
	script, err := i.deps.Scripts.GetDialogue(ctx, target.DialogueID)
	if err != nil {
		i.deps.Logger.Warn("dialogue load failed", "dialogue", target.DialogueID, "error", err)
		script = nil
	}
	if script == nil {
		i.deps.Toast.Show("They have nothing to say.")
		return nil
	}
	startID, ok := script.Start()
	if !ok {
		return nil
	}

	gs := i.deps.State
	gs.IsInputBlocked = true
	runtime := dialogue.NewRuntime(script, startID, dialogue.Handlers{
		ApplyNode:   i.applyDialogueNode,
		ApplyChoice: i.applyDialogueChoice,
		CanSelect:   i.canSelectChoice,
		OnClose: func() {
			gs.IsInputBlocked = false
			i.deps.Persist()
		},
	}, i.deps.Logger)
	if i.deps.DialogueOpened != nil && runtime.IsOpen() {
		i.deps.DialogueOpened(runtime)
	}
	return nil
}

func (i *Interaction) applyDialogueNode(node *dialogue.Node) {
	switch node.Kind {
	case dialogue.NodeLine:
		if node.SetFlag != "" {
			i.setFlag(node.SetFlag)
		}
	case dialogue.NodeEnding:
		if i.deps.State.AddEnding(node.EndingID) {
			i.deps.Toast.Show("Ending discovered: " + node.Title)
		}
		i.deps.Persist()
	}
}

func (i *Interaction) applyDialogueChoice(choice *dialogue.Choice) {
	if choice.SetFlag != "" {
		i.setFlag(choice.SetFlag)
	}
	if choice.GiveItem != "" {
		i.deps.State.GiveItem(choice.GiveItem)
	}
	if choice.RemoveItem != "" {
		i.deps.State.RemoveItem(choice.RemoveItem)
	}
}

func (i *Interaction) canSelectChoice(choice dialogue.Choice) dialogue.SelectState {
	gs := i.deps.State
	if choice.RequiresFlag != "" && !gs.HasFlag(choice.RequiresFlag) {
		return dialogue.SelectState{Reason: "needs proof"}
	}
	if choice.RequiresItem != "" && !gs.HasItem(choice.RequiresItem) {
		return dialogue.SelectState{Reason: "missing an item"}
	}
	return dialogue.SelectState{Allowed: true}
}

// handleObject runs the fixed catalog of object actions. Messaging is
// idempotent: repeated use shows an "already done" variant, while the
// underlying state change happens at most once per flag or item.
func (i *Interaction) handleObject(target *state.Target) {
	gs := i.deps.State
	switch target.OnUse {
	case "luggage-check":
		if !gs.HasFlag("hasCrowbar") {
			i.setFlag("hasCrowbar")
			i.deps.Toast.Show("You find a rusty crowbar behind the cases.")
		} else {
			i.deps.Toast.Show("The shelf is empty now.")
		}
	case "bench-search":
		if !gs.HasItem("ticket") {
			gs.GiveItem("ticket")
			i.setFlag("foundTicket")
			i.deps.Toast.Show("A ticket was tucked into the armrest.")
		} else {
			i.deps.Toast.Show("The seat has already been searched.")
		}
	case "crate-fuse":
		if !gs.HasItem("fuse") {
			gs.GiveItem("fuse")
			i.setFlag("foundFuse")
			i.deps.Toast.Show("You dig out an OV-17 fuse.")
		} else {
			i.deps.Toast.Show("No more usable parts in here.")
		}
	case "panel-power":
		if gs.HasFlag("powerRestored") {
			i.deps.Toast.Show("The power is already back on.")
			break
		}
		if gs.RemoveItem("fuse") {
			i.setFlag("powerRestored")
			i.deps.Toast.Show("The panel hums and the lights return.")
		} else {
			i.deps.Toast.Show("It needs an intact fuse.")
		}
	case "console-scan":
		if len(gs.Flags.Endings) > 0 {
			i.deps.Toast.Show("The console blinks: you have already changed the train's fate.")
		} else {
			i.deps.Toast.Show("The sensors await the driver's command.")
		}
	default:
		i.deps.Toast.Show("Nothing happens here.")
	}
	i.deps.Persist()
}

// handleInspect is the read-only variant: describe the target, or mark
// a route without walking it.
func (i *Interaction) handleInspect(target *state.Target, destination *iso.Point) {
	if target != nil {
		switch target.Kind {
		case state.TargetDoor:
			label := "A door to another car."
			if target.Door != nil && target.Door.Descriptor.Label != "" {
				label = target.Door.Descriptor.Label
			}
			i.deps.Toast.Show(label)
		case state.TargetNPC:
			i.deps.Toast.Show("You could talk to them.")
		case state.TargetObject:
			label := target.Label
			if label == "" {
				label = "An old fixture."
			}
			i.deps.Toast.Show(label)
		}
		return
	}
	if destination != nil {
		gs := i.deps.State
		gs.Marker.Visible = true
		gs.Marker.Position = *destination
		i.deps.Toast.Show("Route marked.")
	} else {
		i.deps.Toast.Show("Tap a tile to walk there.")
	}
}

// setFlag adds a story flag and applies its global side effect: any
// door anywhere on the train gated by this flag opens, even in wagons
// the player has never visited.
func (i *Interaction) setFlag(flag string) {
	if !i.deps.State.AddStoryFlag(flag) {
		return
	}
	for _, w := range i.deps.Train.AllWagons() {
		for _, door := range w.Doors {
			if door.LockedByFlag != flag {
				continue
			}
			if err := i.deps.Train.SetDoorState(w.ID, door.ID, wagon.DoorOpen); err != nil {
				i.deps.Logger.Error("door unlock failed", "wagon", w.ID, "door", door.ID, "error", err)
				continue
			}
			i.deps.Toast.Show("A lock clicks somewhere. A door is open.")
		}
	}
}
