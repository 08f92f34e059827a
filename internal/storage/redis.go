package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

// RedisStorage implements the Storage interface using Redis for saves
// and the filesystem for static content (train, dialogues).
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  rdb,
		logger:  logger,
		dataDir: dataDir,
	}
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Save operations (Redis-backed)

func saveKey(userID string) string {
	return "save:" + userID
}

func (r *RedisStorage) SaveGame(ctx context.Context, userID string, save *state.SaveRecord) error {
	data, err := json.Marshal(save)
	if err != nil {
		r.logger.Error("Failed to marshal save", "user", userID, "error", err)
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	// Saves are long-lived; no TTL.
	cmd := r.client.Set(ctx, saveKey(userID), string(data), 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to write save", "user", userID, "error", err)
		return fmt.Errorf("failed to write save: %w", err)
	}

	return nil
}

// LoadGame returns nil for a missing save. A corrupt save is logged
// and also returns nil: the player starts fresh rather than seeing an
// error surface into gameplay.
func (r *RedisStorage) LoadGame(ctx context.Context, userID string) (*state.SaveRecord, error) {
	cmd := r.client.Get(ctx, saveKey(userID))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to read save", "user", userID, "error", err)
		return nil, fmt.Errorf("failed to read save: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		return nil, nil
	}

	var save state.SaveRecord
	if err := json.Unmarshal([]byte(data), &save); err != nil {
		r.logger.Warn("Corrupt save, starting fresh", "user", userID, "error", err)
		return nil, nil
	}

	return &save, nil
}

func (r *RedisStorage) DeleteGame(ctx context.Context, userID string) error {
	cmd := r.client.Del(ctx, saveKey(userID))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete save", "user", userID, "error", err)
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

// Content operations (filesystem-backed)

func (r *RedisStorage) GetTrain(ctx context.Context) (*wagon.TrainDescriptor, error) {
	path := filepath.Join(r.dataDir, "train.json")

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("train descriptor not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read train descriptor: %w", err)
	}

	var desc wagon.TrainDescriptor
	if err := json.Unmarshal(file, &desc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal train descriptor: %w", err)
	}

	return &desc, nil
}

func (r *RedisStorage) GetDialogue(ctx context.Context, id string) (*dialogue.Script, error) {
	path := filepath.Join(r.dataDir, "dialogues", id+".json")

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No script for this id
		}
		return nil, fmt.Errorf("failed to read dialogue file: %w", err)
	}

	var script dialogue.Script
	if err := json.Unmarshal(file, &script); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dialogue %q: %w", id, err)
	}

	return &script, nil
}

func (r *RedisStorage) ListDialogues(ctx context.Context) ([]string, error) {
	dialoguesDir := filepath.Join(r.dataDir, "dialogues")
	var ids []string

	err := filepath.WalkDir(dialoguesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		ids = append(ids, strings.TrimSuffix(filepath.Base(path), ".json"))
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk dialogues directory", "error", err)
		return nil, fmt.Errorf("failed to list dialogues: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}
