package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// ErrConflict is returned when a save's version does not match the
// stored snapshot. Under the per-key serialization discipline this
// should never happen; seeing it means that discipline was violated.
var ErrConflict = errors.New("player state version conflict")

// Storage defines a unified interface for all storage operations:
// player-state persistence (Redis) and world-definition loading
// (filesystem).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// PlayerState operations (Redis-backed). LoadPlayerState returns
	// nil, nil when no state exists for the key.
	SavePlayerState(ctx context.Context, ps *state.PlayerState) error
	LoadPlayerState(ctx context.Context, gameID, userID string) (*state.PlayerState, error)
	DeletePlayerState(ctx context.Context, gameID, userID string) error

	// World definition operations (filesystem-backed). Definitions are
	// returned as raw bytes; parsing and validation belong to the
	// world loader.
	ListWorlds(ctx context.Context) (map[string]string, error)
	GetWorldDefinition(ctx context.Context, gameID string) ([]byte, error)
}
