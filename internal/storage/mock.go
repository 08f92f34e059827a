package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/deadtrain/engine/pkg/dialogue"
	"github.com/deadtrain/engine/pkg/state"
	"github.com/deadtrain/engine/pkg/wagon"
)

// MockStorage is an in-memory implementation of Storage for testing
// and as a degraded fallback when Redis is unreachable.
type MockStorage struct {
	mu        sync.RWMutex
	saves     map[string]*state.SaveRecord
	train     *wagon.TrainDescriptor
	dialogues map[string]*dialogue.Script
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves:     make(map[string]*state.SaveRecord),
		dialogues: make(map[string]*dialogue.Script),
	}
}

// SetTrain seeds the train descriptor returned by GetTrain.
func (m *MockStorage) SetTrain(desc *wagon.TrainDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.train = desc
}

// SetDialogue seeds a dialogue script.
func (m *MockStorage) SetDialogue(script *dialogue.Script) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogues[script.ID] = script
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveGame mocks writing a save record
func (m *MockStorage) SaveGame(ctx context.Context, userID string, save *state.SaveRecord) error {
	if save == nil {
		return errors.New("save cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[userID] = save
	return nil
}

// LoadGame mocks reading a save record; nil means no save exists
func (m *MockStorage) LoadGame(ctx context.Context, userID string) (*state.SaveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves[userID], nil
}

// DeleteGame mocks removing a save record
func (m *MockStorage) DeleteGame(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, userID)
	return nil
}

// GetTrain mocks loading the train descriptor
func (m *MockStorage) GetTrain(ctx context.Context) (*wagon.TrainDescriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.train == nil {
		return nil, errors.New("no train descriptor configured")
	}
	return m.train, nil
}

// GetDialogue mocks loading a dialogue script; nil means no script
func (m *MockStorage) GetDialogue(ctx context.Context, id string) (*dialogue.Script, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dialogues[id], nil
}

// ListDialogues mocks listing dialogue ids
func (m *MockStorage) ListDialogues(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.dialogues))
	for id := range m.dialogues {
		ids = append(ids, id)
	}
	return ids, nil
}
