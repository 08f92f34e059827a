package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis, string) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	dataDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisStorage(mr.Addr(), dataDir, logger)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr, dataDir
}

func TestRedisStorage_SaveAndLoadGame(t *testing.T) {
	store, _, _ := setupTestStorage(t)
	ctx := context.Background()

	save := &state.SaveRecord{
		WagonID:   "car-b",
		Position:  iso.Point{X: 2, Y: 1},
		Flags:     []string{"doorAUnlocked", "foundTicket"},
		Endings:   []string{"last-stop"},
		Inventory: map[string]int{"fuse": 1},
		Timestamp: time.Now().UTC(),
	}

	require.NoError(t, store.SaveGame(ctx, "user-1", save))

	loaded, err := store.LoadGame(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "car-b", loaded.WagonID)
	assert.Equal(t, save.Position, loaded.Position)
	assert.Equal(t, save.Flags, loaded.Flags)
	assert.Equal(t, save.Endings, loaded.Endings)
	assert.Equal(t, save.Inventory, loaded.Inventory)
}

func TestRedisStorage_LoadMissingGame(t *testing.T) {
	store, _, _ := setupTestStorage(t)

	loaded, err := store.LoadGame(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_CorruptSaveDegradesToFresh(t *testing.T) {
	store, mr, _ := setupTestStorage(t)

	require.NoError(t, mr.Set("save:user-1", "{not json"))

	loaded, err := store.LoadGame(context.Background(), "user-1")
	require.NoError(t, err, "corrupt save must not error into gameplay")
	assert.Nil(t, loaded)
}

func TestRedisStorage_DeleteGame(t *testing.T) {
	store, _, _ := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveGame(ctx, "user-1", &state.SaveRecord{WagonID: "car-a"}))
	require.NoError(t, store.DeleteGame(ctx, "user-1"))

	loaded, err := store.LoadGame(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestRedisStorage_GetTrain(t *testing.T) {
	store, _, dataDir := setupTestStorage(t)
	ctx := context.Background()

	desc := &wagon.TrainDescriptor{
		StartWagonID: "car-a",
		Wagons: []wagon.WagonLayerData{
			{ID: "car-a", Title: "Car A", Spawn: iso.Point{X: 1, Y: 1}},
		},
	}
	writeJSON(t, filepath.Join(dataDir, "train.json"), desc)

	loaded, err := store.GetTrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, "car-a", loaded.StartWagonID)
	require.Len(t, loaded.Wagons, 1)
	assert.Equal(t, "Car A", loaded.Wagons[0].Title)
}

func TestRedisStorage_GetTrainMissing(t *testing.T) {
	store, _, _ := setupTestStorage(t)

	_, err := store.GetTrain(context.Background())
	assert.Error(t, err)
}

func TestRedisStorage_GetDialogue(t *testing.T) {
	store, _, dataDir := setupTestStorage(t)
	ctx := context.Background()

	script := &dialogue.Script{
		ID: "conductor",
		Nodes: []dialogue.Node{
			{ID: "greet", Kind: dialogue.NodeLine, Speaker: "Conductor", Text: "Tickets, please."},
		},
	}
	writeJSON(t, filepath.Join(dataDir, "dialogues", "conductor.json"), script)

	loaded, err := store.GetDialogue(ctx, "conductor")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "conductor", loaded.ID)

	// Unknown id is not an error: the NPC simply has nothing to say.
	missing, err := store.GetDialogue(ctx, "stranger")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRedisStorage_ListDialogues(t *testing.T) {
	store, _, dataDir := setupTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"mechanic", "conductor"} {
		writeJSON(t, filepath.Join(dataDir, "dialogues", id+".json"), &dialogue.Script{ID: id})
	}

	ids, err := store.ListDialogues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"conductor", "mechanic"}, ids)
}
