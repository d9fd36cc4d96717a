package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing. It
// enforces the same version-conflict rule as the Redis implementation
// so serialization bugs show up in unit tests too.
type MockStorage struct {
	mu        sync.RWMutex
	states    map[string][]byte
	worlds    map[string][]byte
	names     map[string]string // world name → game ID
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		states: make(map[string][]byte),
		worlds: make(map[string][]byte),
		names:  make(map[string]string),
	}
}

// SetWorld registers a world definition under a game ID.
func (m *MockStorage) SetWorld(gameID, name string, definition []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worlds[gameID] = definition
	m.names[name] = gameID
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SavePlayerState(ctx context.Context, ps *state.PlayerState) error {
	if ps == nil {
		return errors.New("player state cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := playerStateKey(ps.GameID, ps.UserID)
	if stored, ok := m.states[key]; ok {
		var current state.PlayerState
		if err := json.Unmarshal(stored, &current); err != nil {
			return err
		}
		if current.Version != ps.Version {
			return ErrConflict
		}
	} else if ps.Version != 0 {
		return ErrConflict
	}

	ps.Version++
	ps.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(ps)
	if err != nil {
		ps.Version--
		return err
	}
	m.states[key] = data
	return nil
}

func (m *MockStorage) LoadPlayerState(ctx context.Context, gameID, userID string) (*state.PlayerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.states[playerStateKey(gameID, userID)]
	if !ok {
		return nil, nil
	}
	var ps state.PlayerState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return &ps, nil
}

func (m *MockStorage) DeletePlayerState(ctx context.Context, gameID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, playerStateKey(gameID, userID))
	return nil
}

func (m *MockStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	worlds := make(map[string]string, len(m.names))
	for name, gameID := range m.names {
		worlds[name] = gameID
	}
	return worlds, nil
}

func (m *MockStorage) GetWorldDefinition(ctx context.Context, gameID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.worlds[gameID]
	if !ok {
		return nil, fmt.Errorf("world not found: %s", gameID)
	}
	return data, nil
}
