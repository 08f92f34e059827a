package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deadtrain/engine/internal/config"
	"github.com/deadtrain/engine/internal/game"
	"github.com/deadtrain/engine/internal/input"
	"github.com/deadtrain/engine/internal/logger"
	"github.com/deadtrain/engine/internal/session"
	"github.com/deadtrain/engine/internal/storage"
	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/state"
)

// offlineStorage keeps serving train and dialogue content from disk
// while holding saves in memory, for sessions where Redis is down.
type offlineStorage struct {
	*storage.RedisStorage
	saves *storage.MockStorage
}

func (o *offlineStorage) Ping(ctx context.Context) error { return nil }

func (o *offlineStorage) SaveGame(ctx context.Context, userID string, save *state.SaveRecord) error {
	return o.saves.SaveGame(ctx, userID, save)
}

func (o *offlineStorage) LoadGame(ctx context.Context, userID string) (*state.SaveRecord, error) {
	return o.saves.LoadGame(ctx, userID)
}

func (o *offlineStorage) DeleteGame(ctx context.Context, userID string) error {
	return o.saves.DeleteGame(ctx, userID)
}

func main() {
	cfg := config.Load()

	// The terminal is owned by the alt screen, so logs go to a file.
	logWriter := io.Writer(io.Discard)
	if f, err := os.OpenFile(filepath.Join(cfg.DataDir, "game.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		logWriter = f
	}
	log := logger.Setup(cfg, logWriter)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var store storage.Storage
	redisStore := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	degraded := false
	if err := redisStore.WaitForConnection(ctx); err != nil {
		log.Warn("redis unavailable, saves will not survive this session", "error", err)
		store = &offlineStorage{RedisStorage: redisStore, saves: storage.NewMockStorage()}
		degraded = true
	} else {
		store = redisStore
	}
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	shared := newShell()

	sess := session.Resolve(log)
	if verifier := session.NewVerifier(cfg.SessionVerifyURL, log); verifier != nil {
		if err := verifier.Verify(ctx, sess.Token); err != nil {
			log.Warn("session verification failed, continuing anonymously", "error", err)
			shared.Show("Could not verify the session. Playing as a guest.")
			sess = session.Context{UserID: sess.UserID}
		}
	}

	train, err := redisStore.GetTrain(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load train data: %v\n", err)
		os.Exit(1)
	}
	engine, err := game.NewEngine(
		state.Config{VirtualWidth: 360, VirtualHeight: 200, TileWidth: 128, TileHeight: 64},
		train, store, sess.UserID, log,
		shared, shared, shared,
		func(rt *dialogue.Runtime) { shared.dialogue = rt },
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build engine: %v\n", err)
		os.Exit(1)
	}
	engine.RestoreSave(ctx)
	if degraded {
		shared.Show("Storage is offline. Progress will not be saved.")
	}

	router := input.NewRouter(engine.HitTester(), engine.Interaction(), game.NopHaptics{}, log)

	p := tea.NewProgram(NewGameUI(engine, router, shared, sess.UserID),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
