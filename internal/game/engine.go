package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deadtrain/engine/internal/storage"
	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

// Engine owns the session: it builds the aggregate and subsystems,
// orchestrates wagon travel and save restore, and drives the per-tick
// movement update. All methods run on the single game loop goroutine;
// only persistence leaves it.
type Engine struct {
	state       *state.GameState
	train       *wagon.TrainGraph
	movement    *Movement
	hitTester   *HitTester
	interaction *Interaction
	store       storage.Storage
	userID      string
	logger      *slog.Logger
	toast       Toast
	audio       Audio
	fader       Fader
}

// NewEngine builds the runtime for a fresh session starting at the
// train's start wagon.
func NewEngine(cfg state.Config, desc *wagon.TrainDescriptor, store storage.Storage, userID string,
	logger *slog.Logger, toast Toast, audio Audio, fader Fader,
	dialogueOpened func(*dialogue.Runtime)) (*Engine, error) {

	train := wagon.NewTrainGraph(desc)
	current, err := train.CurrentWagon()
	if err != nil {
		return nil, fmt.Errorf("train descriptor has no start wagon: %w", err)
	}

	gs := state.NewGameState(cfg, current, train.State())
	e := &Engine{
		state:     gs,
		train:     train,
		movement:  NewMovement(gs),
		hitTester: NewHitTester(gs),
		store:     store,
		userID:    userID,
		logger:    logger,
		toast:     toast,
		audio:     audio,
		fader:     fader,
	}
	e.movement.SetMesh(current.Navmesh)
	e.buildTargets(current)

	e.interaction = NewInteraction(InteractionDeps{
		State:          gs,
		Movement:       e.movement,
		Train:          train,
		Scripts:        store,
		Toast:          toast,
		Audio:          audio,
		Logger:         logger,
		Travel:         e.Travel,
		Persist:        e.Persist,
		DialogueOpened: dialogueOpened,
	})
	return e, nil
}

// State exposes the aggregate read-only to the renderer. The renderer
// must never mutate it.
func (e *Engine) State() *state.GameState {
	return e.state
}

// Interaction returns the intent dispatcher.
func (e *Engine) Interaction() *Interaction {
	return e.interaction
}

// HitTester returns the input classifier.
func (e *Engine) HitTester() *HitTester {
	return e.hitTester
}

// Tick advances the simulation by elapsed seconds. Callers must render
// after, never before, this call.
func (e *Engine) Tick(deltaSeconds float64) {
	e.movement.Update(deltaSeconds)
}

// Travel performs the full awaited wagon transition: fade out, swap
// wagon and mesh, reposition the player at the door's spawn point,
// rebuild targets, switch ambience, fade in, persist. A second
// interaction during the transition is kept out by the movement stop
// and input-block guards upstream, not by queueing.
func (e *Engine) Travel(ctx context.Context, wagonID string, spawn iso.Point) error {
	if err := e.fader.FadeOut(ctx); err != nil {
		e.logger.Warn("fade out failed", "error", err)
	}
	w, err := e.train.TravelTo(wagonID)
	if err != nil {
		return fmt.Errorf("travel failed: %w", err)
	}
	gs := e.state
	gs.Wagon = w
	e.movement.SetMesh(w.Navmesh)
	gs.Player.Position = spawn
	gs.Player.Path = nil
	gs.Player.IsMoving = false
	gs.Marker.Visible = false
	e.buildTargets(w)

	ambient := "train"
	if w.Ambient == "dark" {
		ambient = "dark"
	}
	e.audio.PlayAmbient(ambient)
	if err := e.fader.FadeIn(ctx); err != nil {
		e.logger.Warn("fade in failed", "error", err)
	}
	e.Persist()
	return nil
}

// RestoreSave loads the user's save, if any, and applies it. Missing
// or corrupt data degrades to a fresh start; it never errors into
// gameplay.
func (e *Engine) RestoreSave(ctx context.Context) {
	save, err := e.store.LoadGame(ctx, e.userID)
	if err != nil {
		e.logger.Warn("save load failed, starting fresh", "user", e.userID, "error", err)
		e.toast.Show("Could not read the save. Starting over.")
		return
	}
	if save == nil {
		return
	}

	w, err := e.train.Wagon(save.WagonID)
	if err != nil {
		e.logger.Warn("save names unknown wagon, starting fresh", "wagon", save.WagonID, "error", err)
		e.toast.Show("The save is damaged. Starting over.")
		return
	}

	gs := e.state
	state.ApplySave(gs, save)
	e.refreshDoorsFromFlags()
	if _, err := e.train.TravelTo(save.WagonID); err != nil {
		return
	}
	gs.Wagon = w
	e.movement.SetMesh(w.Navmesh)
	gs.Player.Position = save.Position
	e.buildTargets(w)
	e.logger.Info("save restored", "wagon", save.WagonID,
		"flags", len(save.Flags), "endings", len(save.Endings), "items", len(save.Inventory))
}

// refreshDoorsFromFlags reapplies the unlock side effect of every
// restored story flag across the whole train.
func (e *Engine) refreshDoorsFromFlags() {
	for _, w := range e.train.AllWagons() {
		for _, door := range w.Doors {
			if door.LockedByFlag == "" || !e.state.HasFlag(door.LockedByFlag) {
				continue
			}
			if err := e.train.SetDoorState(w.ID, door.ID, wagon.DoorOpen); err != nil {
				e.logger.Error("door refresh failed", "wagon", w.ID, "door", door.ID, "error", err)
			}
		}
	}
}

// buildTargets rebuilds the interaction target list for the active
// wagon. Targets are ephemeral and rebuilt on every wagon change.
func (e *Engine) buildTargets(w *wagon.WagonLayerData) {
	targets := make([]state.Target, 0, len(w.Doors)+len(w.NPCs)+len(w.Objects))
	for _, door := range w.Doors {
		radius := door.Radius
		if radius == 0 {
			radius = 48
		}
		targets = append(targets, state.Target{
			ID:       door.ID,
			Kind:     state.TargetDoor,
			Position: door.Position,
			Radius:   radius,
			Door:     &state.DoorRef{WagonID: w.ID, Descriptor: door},
		})
	}
	for _, npc := range w.NPCs {
		targets = append(targets, state.Target{
			ID:         npc.ID,
			Kind:       state.TargetNPC,
			Position:   npc.Position,
			Radius:     npc.Radius,
			DialogueID: npc.DialogueID,
			Name:       npc.Name,
		})
	}
	for _, object := range w.Objects {
		targets = append(targets, state.Target{
			ID:       object.ID,
			Kind:     state.TargetObject,
			Position: object.Position,
			Radius:   object.Radius,
			Label:    object.Label,
			OnUse:    object.OnUse,
		})
	}
	e.state.CurrentTargets = targets
}

// Persist snapshots the state and writes it in the background. Callers
// never wait; a failed write is logged and gameplay continues.
func (e *Engine) Persist() {
	save := state.CreateSave(e.state)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.store.SaveGame(ctx, e.userID, save); err != nil {
			e.logger.Warn("save write failed", "user", e.userID, "error", err)
		}
	}()
}
