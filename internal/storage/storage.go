// Package storage persists save records and loads static game content.
// Saves live in Redis keyed per user; content (the train descriptor
// and dialogue scripts) is read from JSON files under the data
// directory.
package storage

import (
	"context"

	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

// Storage is the unified interface for save persistence (Redis) and
// content loading (filesystem).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Save operations (Redis-backed). LoadGame returns nil for a
	// missing or unreadable save; gameplay starts fresh in that case.
	SaveGame(ctx context.Context, userID string, save *state.SaveRecord) error
	LoadGame(ctx context.Context, userID string) (*state.SaveRecord, error)
	DeleteGame(ctx context.Context, userID string) error

	// Content operations (filesystem-backed)
	GetTrain(ctx context.Context) (*wagon.TrainDescriptor, error)
	GetDialogue(ctx context.Context, id string) (*dialogue.Script, error)
	ListDialogues(ctx context.Context) ([]string, error)
}
