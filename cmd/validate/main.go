package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/deadtrain/engine/internal/config"
	"github.com/deadtrain/engine/internal/storage"
	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/wagon"
)

// Validates the content pack under DATA_DIR: the train descriptor and
// every dialogue script, including cross references between them.
func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, logger)

	ctx := context.Background()
	validator := &ContentValidator{}

	fmt.Printf("Validating content in %s...\n", cfg.DataDir)

	train, err := store.GetTrain(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load train descriptor: %v\n", err)
		os.Exit(1)
	}

	scripts := make(map[string]*dialogue.Script)
	ids, err := store.ListDialogues(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list dialogues: %v\n", err)
		os.Exit(1)
	}
	for _, id := range ids {
		script, err := store.GetDialogue(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load dialogue %s: %v\n", id, err)
			os.Exit(1)
		}
		scripts[id] = script
	}

	validator.validateTrain(train)
	for id, script := range scripts {
		validator.validateScript(id, script)
	}
	validator.validateCrossReferences(train, scripts)

	if len(validator.errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed:\n%s\n", strings.Join(validator.errors, "\n"))
		os.Exit(1)
	}

	fmt.Printf("Content is valid: %d wagons, %d dialogues.\n", len(train.Wagons), len(scripts))
}

type ContentValidator struct {
	errors []string
}

func (v *ContentValidator) errorf(format string, args ...any) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}

func (v *ContentValidator) validateTrain(train *wagon.TrainDescriptor) {
	if len(train.Wagons) == 0 {
		v.errorf("train has no wagons")
		return
	}

	wagonIDs := make(map[string]bool, len(train.Wagons))
	for _, w := range train.Wagons {
		if w.ID == "" {
			v.errorf("wagon with empty id")
			continue
		}
		if wagonIDs[w.ID] {
			v.errorf("duplicate wagon id %q", w.ID)
		}
		wagonIDs[w.ID] = true
	}

	if train.StartWagonID == "" {
		v.errorf("start_wagon_id is empty")
	} else if !wagonIDs[train.StartWagonID] {
		v.errorf("start_wagon_id %q is not a wagon", train.StartWagonID)
	}

	for i := range train.Wagons {
		v.validateWagon(&train.Wagons[i], wagonIDs)
	}
}

func (v *ContentValidator) validateWagon(w *wagon.WagonLayerData, wagonIDs map[string]bool) {
	if len(w.Navmesh) == 0 {
		v.errorf("wagon %s: empty navmesh", w.ID)
		return
	}
	if !onNavmesh(w.Navmesh, w.Spawn) {
		v.errorf("wagon %s: spawn (%g, %g) is not on the navmesh", w.ID, w.Spawn.X, w.Spawn.Y)
	}

	doorIDs := make(map[string]bool, len(w.Doors))
	for _, door := range w.Doors {
		if door.ID == "" {
			v.errorf("wagon %s: door with empty id", w.ID)
			continue
		}
		if doorIDs[door.ID] {
			v.errorf("wagon %s: duplicate door id %q", w.ID, door.ID)
		}
		doorIDs[door.ID] = true
		if !wagonIDs[door.TargetWagonID] {
			v.errorf("wagon %s: door %s targets unknown wagon %q", w.ID, door.ID, door.TargetWagonID)
		}
		if door.LockedByFlag != "" && door.BlockedIfFlag != "" {
			v.errorf("wagon %s: door %s is both locked and blocked; blocked wins and the lock is dead content", w.ID, door.ID)
		}
	}

	for _, npc := range w.NPCs {
		if npc.ID == "" {
			v.errorf("wagon %s: NPC with empty id", w.ID)
		}
	}
	for _, object := range w.Objects {
		if object.ID == "" {
			v.errorf("wagon %s: object with empty id", w.ID)
		}
	}
}

// onNavmesh checks the spawn against the rounded mesh keys, the same
// rounding the runtime mesh uses.
func onNavmesh(mesh []iso.Point, p iso.Point) bool {
	target := iso.Round(p)
	for _, mp := range mesh {
		if iso.Round(mp) == target {
			return true
		}
	}
	return false
}

func (v *ContentValidator) validateScript(id string, script *dialogue.Script) {
	if script.ID != id {
		v.errorf("dialogue %s: script id %q does not match filename", id, script.ID)
	}
	if err := script.Validate(); err != nil {
		v.errorf("dialogue %s: %v", id, err)
	}
}

// validateCrossReferences checks that every NPC's dialogue id resolves
// to a loaded script, and reports scripts no NPC references.
func (v *ContentValidator) validateCrossReferences(train *wagon.TrainDescriptor, scripts map[string]*dialogue.Script) {
	referenced := make(map[string]bool)
	for _, w := range train.Wagons {
		for _, npc := range w.NPCs {
			if npc.DialogueID == "" {
				continue
			}
			referenced[npc.DialogueID] = true
			if _, ok := scripts[npc.DialogueID]; !ok {
				v.errorf("wagon %s: NPC %s references unknown dialogue %q", w.ID, npc.ID, npc.DialogueID)
			}
		}
	}
	for id := range scripts {
		if !referenced[id] {
			fmt.Printf("  note: dialogue %s is not referenced by any NPC\n", id)
		}
	}
}
